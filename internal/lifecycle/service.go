package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/metrics"
	"github.com/hiredeck/hiredeck/internal/notify"
	"github.com/hiredeck/hiredeck/internal/store"
)

// Service applies status transitions against the record store and emits
// the attached notification side effect.
type Service struct {
	store   store.Store
	emitter notify.Emitter
	log     *slog.Logger
}

func NewService(st store.Store, emitter notify.Emitter, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, emitter: emitter, log: log}
}

// Transition moves one application from expected to next. The store
// write is a single-row CAS: if the application's status no longer
// equals expected the caller gets ErrStaleState and must retry with the
// refreshed state. Exactly one status_update notification is emitted
// per successful transition; emission failures are logged, not
// surfaced, since the status write already committed.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, expected, next Status) (store.Application, error) {
	if err := CanTransition(expected, next); err != nil {
		metrics.TransitionsTotal.WithLabelValues("invalid").Inc()
		return store.Application{}, err
	}

	app, err := s.store.UpdateApplicationStatus(ctx, id, string(expected), string(next))
	if err != nil {
		if apperror.Is(err, apperror.ErrStaleState) {
			metrics.TransitionsTotal.WithLabelValues("stale").Inc()
		} else {
			metrics.TransitionsTotal.WithLabelValues("error").Inc()
		}
		return store.Application{}, err
	}
	metrics.TransitionsTotal.WithLabelValues("ok").Inc()

	s.notifyApplicant(ctx, app, next)
	return app, nil
}

func (s *Service) notifyApplicant(ctx context.Context, app store.Application, next Status) {
	jobTitle := "your application"
	if job, err := s.store.GetJobPosting(ctx, app.JobID); err == nil {
		jobTitle = job.Title
	}

	msg := notify.Message{
		RecipientID: app.ApplicantID,
		Type:        notify.TypeStatusUpdate,
		Message:     fmt.Sprintf("Your application for %s is now %s", jobTitle, next),
		Link:        fmt.Sprintf("/applications/%s", app.ID),
	}
	if err := s.emitter.Emit(ctx, msg); err != nil {
		s.log.Error("status notification emit failed",
			"application_id", app.ID.String(),
			"status", string(next),
			"error", err,
		)
	}
}

// NormalizeResult summarizes one run of the legacy-status repair pass.
type NormalizeResult struct {
	Scanned  int `json:"scanned"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Unmapped int `json:"unmapped"`
}

// NormalizeLegacy rewrites historical raw status tokens to canonical
// labels. Re-running it on clean data is a no-op: only rows outside the
// canonical set are scanned at all. Tokens with no mapping rule are
// logged and left untouched. No notifications are emitted; this is data
// repair, not a lifecycle transition.
func (s *Service) NormalizeLegacy(ctx context.Context, dryRun bool, progress func(done, total int)) (NormalizeResult, error) {
	var res NormalizeResult

	apps, err := s.store.ListNonCanonicalApplications(ctx, Canonical())
	if err != nil {
		return res, err
	}

	for i, app := range apps {
		res.Scanned++

		canon, ok := Normalize(app.Status)
		if !ok {
			res.Unmapped++
			s.log.Warn("legacy status with no normalization rule",
				"application_id", app.ID.String(),
				"status", app.Status,
			)
			continue
		}

		if dryRun {
			res.Updated++
		} else {
			_, err := s.store.UpdateApplicationStatus(ctx, app.ID, app.Status, string(canon))
			switch {
			case err == nil:
				res.Updated++
				metrics.LegacyStatusesNormalized.Inc()
			case apperror.Is(err, apperror.ErrStaleState):
				// Row changed under the scan; the next run picks it up if
				// it is still non-canonical.
				res.Skipped++
			default:
				return res, err
			}
		}

		if progress != nil {
			progress(i+1, len(apps))
		}
	}

	return res, nil
}
