package window

import (
	"time"

	"github.com/hiredeck/hiredeck/internal/apperror"
)

// Period names a reporting range accepted by the dashboard endpoints.
type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodAll    Period = "all"
	PeriodCustom Period = "custom"
)

// Unit is the bucket granularity used when a window is split into a
// trend series.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Window is a half-open interval [Start, End). A zero Start means the
// window is unbounded below (the "all" period applies no lower bound).
type Window struct {
	Start time.Time
	End   time.Time
	Unit  Unit
}

// Clock supplies the current time. Injected so resolution is
// deterministic under test.
type Clock func() time.Time

// Resolver turns a requested period into a concrete window.
type Resolver struct {
	now Clock
}

func NewResolver(now Clock) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

var periodDurations = map[Period]time.Duration{
	PeriodDay:   24 * time.Hour,
	PeriodWeek:  7 * 24 * time.Hour,
	PeriodMonth: 30 * 24 * time.Hour,
	PeriodYear:  365 * 24 * time.Hour,
}

// Resolve computes the [start, end) interval and bucket unit for a
// period. customStart/customEnd are only consulted for PeriodCustom.
func (r *Resolver) Resolve(period Period, customStart, customEnd *time.Time) (Window, error) {
	now := r.now().UTC()

	switch period {
	case PeriodDay, PeriodWeek:
		return Window{Start: now.Add(-periodDurations[period]), End: now, Unit: UnitDay}, nil
	case PeriodMonth:
		return Window{Start: now.Add(-periodDurations[period]), End: now, Unit: UnitWeek}, nil
	case PeriodYear:
		return Window{Start: now.Add(-periodDurations[period]), End: now, Unit: UnitMonth}, nil
	case PeriodAll:
		return Window{End: now, Unit: UnitMonth}, nil
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return Window{}, apperror.ErrInvalidRange
		}
		if customStart.After(*customEnd) {
			return Window{}, apperror.ErrInvalidRange
		}
		return Window{Start: customStart.UTC(), End: customEnd.UTC(), Unit: UnitMonth}, nil
	default:
		return Window{}, apperror.ErrInvalidRange
	}
}

// Validate reports whether the window bounds are ordered. Used by the
// aggregation engine, which also accepts windows built by callers
// directly rather than through Resolve.
func (w Window) Validate() error {
	if !w.Start.IsZero() && w.Start.After(w.End) {
		return apperror.ErrInvalidWindow
	}
	return nil
}

// Bounded reports whether the window has a lower bound.
func (w Window) Bounded() bool {
	return !w.Start.IsZero()
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	if w.Bounded() && t.Before(w.Start) {
		return false
	}
	return t.Before(w.End)
}

// Duration is the window length. Unbounded windows report zero.
func (w Window) Duration() time.Duration {
	if !w.Bounded() {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Previous returns the immediately preceding window of equal duration,
// used for growth comparisons. The previous of an unbounded window is
// empty (ok == false).
func (w Window) Previous() (Window, bool) {
	if !w.Bounded() {
		return Window{}, false
	}
	d := w.Duration()
	return Window{Start: w.Start.Add(-d), End: w.Start, Unit: w.Unit}, true
}

// BucketStart truncates t down to the start of its bucket.
func (w Window) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	switch w.Unit {
	case UnitWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Weeks start on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case UnitMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// BucketLabel formats the bucket containing t.
func (w Window) BucketLabel(t time.Time) string {
	start := w.BucketStart(t)
	if w.Unit == UnitMonth {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// next advances a bucket start by one unit.
func (w Window) next(t time.Time) time.Time {
	switch w.Unit {
	case UnitWeek:
		return t.AddDate(0, 0, 7)
	case UnitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// BucketStarts enumerates every bucket start covering [from, End).
// Callers pass w.Start for bounded windows, or the earliest record
// timestamp for unbounded ones.
func (w Window) BucketStarts(from time.Time) []time.Time {
	if from.IsZero() || !from.Before(w.End) {
		return nil
	}
	var starts []time.Time
	for t := w.BucketStart(from); t.Before(w.End); t = w.next(t) {
		starts = append(starts, t)
	}
	return starts
}

// ParsePeriod validates a raw period token from a request.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll, PeriodCustom:
		return Period(raw), nil
	case "":
		return PeriodMonth, nil
	default:
		return "", apperror.ErrInvalidRange
	}
}
