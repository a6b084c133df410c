// Package lifecycle owns the application status state machine: the
// canonical label set, which transitions are allowed, and the mapping
// that folds historical raw tokens into canonical labels.
package lifecycle

import (
	"strings"

	"github.com/hiredeck/hiredeck/internal/apperror"
)

// Status is a canonical, title-cased application status label.
type Status string

const (
	StatusNew                Status = "New"
	StatusReviewed           Status = "Reviewed"
	StatusShortlisted        Status = "Shortlisted"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusHired              Status = "Hired"
	StatusRejected           Status = "Rejected"
)

// Initial is the status every application starts in.
const Initial = StatusNew

var canonical = []Status{
	StatusNew,
	StatusReviewed,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusHired,
	StatusRejected,
}

// FunnelStages lists the statuses in pipeline order, used by the funnel
// metric. Rejected is not a funnel stage.
var FunnelStages = []Status{
	StatusNew,
	StatusReviewed,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusHired,
}

// Canonical returns the canonical label set as raw strings, in funnel
// order with Rejected last.
func Canonical() []string {
	out := make([]string, len(canonical))
	for i, s := range canonical {
		out[i] = string(s)
	}
	return out
}

// Known reports whether s is a canonical label.
func Known(s Status) bool {
	for _, c := range canonical {
		if c == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition may leave s. Recruiters move
// applications freely between the other stages in any order.
func Terminal(s Status) bool {
	return s == StatusHired || s == StatusRejected
}

// CanTransition validates a status change without applying it.
func CanTransition(from, to Status) error {
	if !Known(from) || !Known(to) {
		return apperror.ErrInvalidTransition
	}
	if Terminal(from) {
		return apperror.ErrInvalidTransition
	}
	if from == to {
		return apperror.ErrInvalidTransition
	}
	return nil
}

// legacyStatuses maps raw tokens found in historical records to
// canonical labels. Canonical labels themselves are not in this table;
// Normalize passes them through, which is what makes it idempotent.
var legacyStatuses = map[string]Status{
	"new":         StatusNew,
	"applied":     StatusNew,
	"reviewed":    StatusReviewed,
	"viewed":      StatusReviewed,
	"shortlisted": StatusShortlisted,
	"interview":   StatusInterviewScheduled,
	"scheduled":   StatusInterviewScheduled,
	"hired":       StatusHired,
	"selected":    StatusHired,
	"rejected":    StatusRejected,
}

// Normalize folds a raw status token into its canonical label. Already
// canonical values come back unchanged, so Normalize(Normalize(x)) ==
// Normalize(x). Tokens with no rule return ok == false and are left for
// the caller to log rather than guess at.
func Normalize(raw string) (Status, bool) {
	if Known(Status(raw)) {
		return Status(raw), true
	}
	if s, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s, true
	}
	return Status(raw), false
}
