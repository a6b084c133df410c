package window

import (
	"errors"
	"testing"
	"time"

	"github.com/hiredeck/hiredeck/internal/apperror"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func TestResolvePeriods(t *testing.T) {
	r := NewResolver(fixedClock)

	tests := []struct {
		period    Period
		wantStart time.Time
		wantUnit  Unit
	}{
		{PeriodDay, testNow.Add(-24 * time.Hour), UnitDay},
		{PeriodWeek, testNow.Add(-7 * 24 * time.Hour), UnitDay},
		{PeriodMonth, testNow.Add(-30 * 24 * time.Hour), UnitWeek},
		{PeriodYear, testNow.Add(-365 * 24 * time.Hour), UnitMonth},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			w, err := r.Resolve(tt.period, nil, nil)
			if err != nil {
				t.Fatalf("Resolve(%s) error: %v", tt.period, err)
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(testNow) {
				t.Errorf("End = %v, want %v", w.End, testNow)
			}
			if w.Unit != tt.wantUnit {
				t.Errorf("Unit = %s, want %s", w.Unit, tt.wantUnit)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	r := NewResolver(fixedClock)

	w, err := r.Resolve(PeriodAll, nil, nil)
	if err != nil {
		t.Fatalf("Resolve(all) error: %v", err)
	}
	if w.Bounded() {
		t.Error("all period should be unbounded below")
	}
	if !w.End.Equal(testNow) {
		t.Errorf("End = %v, want %v", w.End, testNow)
	}
	if _, ok := w.Previous(); ok {
		t.Error("unbounded window should have no previous window")
	}
}

func TestResolveCustom(t *testing.T) {
	r := NewResolver(fixedClock)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	w, err := r.Resolve(PeriodCustom, &start, &end)
	if err != nil {
		t.Fatalf("Resolve(custom) error: %v", err)
	}
	if !w.Start.Equal(start) || !w.End.Equal(end) {
		t.Errorf("window = [%v, %v), want [%v, %v)", w.Start, w.End, start, end)
	}
	if w.Unit != UnitMonth {
		t.Errorf("Unit = %s, want %s", w.Unit, UnitMonth)
	}
}

func TestResolveCustomRejectsBadRanges(t *testing.T) {
	r := NewResolver(fixedClock)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		start, end *time.Time
	}{
		{"missing both", nil, nil},
		{"missing start", nil, &end},
		{"missing end", &start, nil},
		{"inverted", &start, &end},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(PeriodCustom, tt.start, tt.end)
			if !errors.Is(err, apperror.ErrInvalidRange) && !apperror.Is(err, apperror.ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestResolveUnknownPeriod(t *testing.T) {
	r := NewResolver(fixedClock)
	if _, err := r.Resolve(Period("quarter"), nil, nil); !apperror.Is(err, apperror.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		raw     string
		want    Period
		wantErr bool
	}{
		{"day", PeriodDay, false},
		{"week", PeriodWeek, false},
		{"month", PeriodMonth, false},
		{"year", PeriodYear, false},
		{"all", PeriodAll, false},
		{"custom", PeriodCustom, false},
		{"", PeriodMonth, false},
		{"quarter", "", true},
		{"MONTH", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q) error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestContainsHalfOpen(t *testing.T) {
	w := Window{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Unit:  UnitDay,
	}

	if !w.Contains(w.Start) {
		t.Error("start boundary should be inside")
	}
	if w.Contains(w.End) {
		t.Error("end boundary should be outside")
	}
	if w.Contains(w.Start.Add(-time.Nanosecond)) {
		t.Error("instant before start should be outside")
	}
	if !w.Contains(w.End.Add(-time.Nanosecond)) {
		t.Error("instant just before end should be inside")
	}
}

func TestPrevious(t *testing.T) {
	w := Window{
		Start: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Unit:  UnitDay,
	}

	prev, ok := w.Previous()
	if !ok {
		t.Fatal("bounded window should have a previous window")
	}
	if !prev.End.Equal(w.Start) {
		t.Errorf("previous End = %v, want %v", prev.End, w.Start)
	}
	if prev.Duration() != w.Duration() {
		t.Errorf("previous Duration = %v, want %v", prev.Duration(), w.Duration())
	}
	// Adjacency: the boundary instant belongs to exactly one window.
	if prev.Contains(w.Start) {
		t.Error("boundary instant should not be in the previous window")
	}
	if !w.Contains(w.Start) {
		t.Error("boundary instant should be in the current window")
	}
}

func TestValidate(t *testing.T) {
	ok := Window{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}

	inverted := Window{Start: ok.End, End: ok.Start}
	if err := inverted.Validate(); !apperror.Is(err, apperror.ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}

	unbounded := Window{End: ok.End}
	if err := unbounded.Validate(); err != nil {
		t.Errorf("unbounded window rejected: %v", err)
	}
}

func TestBucketStartWeeksStartMonday(t *testing.T) {
	w := Window{Unit: UnitWeek}

	// 2025-06-15 is a Sunday; its week starts Monday 2025-06-09.
	sunday := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	want := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	if got := w.BucketStart(sunday); !got.Equal(want) {
		t.Errorf("BucketStart(sunday) = %v, want %v", got, want)
	}

	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	if got := w.BucketStart(monday); !got.Equal(monday) {
		t.Errorf("BucketStart(monday) = %v, want %v", got, monday)
	}
}

func TestBucketLabel(t *testing.T) {
	ts := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

	if got := (Window{Unit: UnitDay}).BucketLabel(ts); got != "2025-06-15" {
		t.Errorf("day label = %q", got)
	}
	if got := (Window{Unit: UnitWeek}).BucketLabel(ts); got != "2025-06-09" {
		t.Errorf("week label = %q", got)
	}
	if got := (Window{Unit: UnitMonth}).BucketLabel(ts); got != "2025-06" {
		t.Errorf("month label = %q", got)
	}
}

func TestBucketStartsCoverWindow(t *testing.T) {
	w := Window{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		Unit:  UnitDay,
	}

	starts := w.BucketStarts(w.Start)
	if len(starts) != 7 {
		t.Fatalf("len(starts) = %d, want 7", len(starts))
	}
	for i, s := range starts {
		want := w.Start.AddDate(0, 0, i)
		if !s.Equal(want) {
			t.Errorf("starts[%d] = %v, want %v", i, s, want)
		}
	}

	if got := w.BucketStarts(time.Time{}); got != nil {
		t.Errorf("zero from should yield no buckets, got %v", got)
	}
	if got := w.BucketStarts(w.End); got != nil {
		t.Errorf("from at End should yield no buckets, got %v", got)
	}
}
