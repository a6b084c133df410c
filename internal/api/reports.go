package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/report"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/window"
)

// parseReportRequest pulls the shared report parameters out of the query
// string. Unknown periods and malformed timestamps fail here, before any
// store work.
func parseReportRequest(r *http.Request) (report.Request, error) {
	q := r.URL.Query()

	period, err := window.ParsePeriod(q.Get("period"))
	if err != nil {
		return report.Request{}, err
	}

	req := report.Request{
		Period:           period,
		Fresh:            q.Get("fresh") == "1",
		CumulativeFunnel: q.Get("cumulative") == "1",
	}

	if raw := q.Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return report.Request{}, apperror.Wrap(err, apperror.ErrInvalidRange)
		}
		req.CustomStart = &t
	}
	if raw := q.Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return report.Request{}, apperror.Wrap(err, apperror.ErrInvalidRange)
		}
		req.CustomEnd = &t
	}

	return req, nil
}

// scopeOwner decides whose data a report covers. Recruiters and team
// members always see their own company; admins see the platform unless
// they pass ?owner= explicitly.
func scopeOwner(r *http.Request) (uuid.UUID, error) {
	if GetRole(r.Context()) != store.RoleAdmin {
		userID, ok := GetUserID(r.Context())
		if !ok {
			return uuid.Nil, apperror.ErrUnauthorized
		}
		return userID, nil
	}

	if raw := r.URL.Query().Get("owner"); raw != "" {
		owner, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, apperror.Wrap(err, apperror.ErrBadRequest)
		}
		return owner, nil
	}
	return uuid.Nil, nil
}

func dashboardHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseReportRequest(r)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}
		if req.Owner, err = scopeOwner(r); err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		out, err := cfg.Assembler.Dashboard(r.Context(), req)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func overviewHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseReportRequest(r)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		out, err := cfg.Assembler.Overview(r.Context(), req)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func companyReportHandler(cfg *Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			apperror.WriteJSON(w, r, apperror.Wrap(err, apperror.ErrBadRequest))
			return
		}

		// Non-admins can only drill into their own company.
		if GetRole(r.Context()) != store.RoleAdmin {
			userID, ok := GetUserID(r.Context())
			if !ok || userID != ownerID {
				apperror.WriteJSON(w, r, apperror.ErrForbidden)
				return
			}
		}

		req, err := parseReportRequest(r)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}
		req.Owner = ownerID

		out, err := cfg.Assembler.Company(r.Context(), cfg.Store, req)
		if err != nil {
			apperror.WriteJSON(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
