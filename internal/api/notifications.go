package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/store"
)

const defaultNotificationLimit = 50

func notificationsHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			apperror.WriteJSON(w, r, apperror.ErrUnauthorized)
			return
		}

		limit := defaultNotificationLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 200 {
				apperror.WriteJSON(w, r, apperror.WrapWithMessage(err,
					"bad_request", "limit must be between 1 and 200", http.StatusBadRequest))
				return
			}
			limit = n
		}

		items, err := cfg.Store.ListNotifications(r.Context(), userID, limit)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}
		if items == nil {
			items = []store.Notification{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"notifications": items,
			"count":         len(items),
		})
	}
}
