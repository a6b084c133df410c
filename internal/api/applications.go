package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/tracing"
)

type transitionRequest struct {
	Status string `json:"status"`

	// Expected is the status the caller last saw. When omitted the
	// handler reads the current status, which turns the CAS into
	// last-write-wins for that caller.
	Expected string `json:"expected,omitempty"`
}

func transitionHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			apperror.WriteJSON(w, r, apperror.Wrap(err, apperror.ErrBadRequest))
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteJSON(w, r, apperror.Wrap(err, apperror.ErrBadRequest))
			return
		}
		if req.Status == "" {
			apperror.WriteJSON(w, r, apperror.WrapWithMessage(nil,
				"bad_request", "status is required", http.StatusBadRequest))
			return
		}

		ctx, span := tracing.StartTransitionSpan(r.Context(), id.String(), req.Status)
		defer span.End()
		if cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()
		}

		expected := lifecycle.Status(req.Expected)
		if req.Expected == "" {
			app, err := cfg.Store.GetApplication(ctx, id)
			if err != nil {
				apperror.WriteJSON(w, r, err)
				return
			}
			expected = lifecycle.Status(app.Status)
		}

		app, err := cfg.Lifecycle.Transition(ctx, id, expected, lifecycle.Status(req.Status))
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		log.Info("application status updated",
			"application_id", app.ID.String(),
			"from", string(expected),
			"to", app.Status,
		)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(app)
	}
}
