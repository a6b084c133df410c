package lifecycle

import (
	"testing"

	"github.com/hiredeck/hiredeck/internal/apperror"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"forward move", StatusNew, StatusReviewed, true},
		{"skip stages", StatusNew, StatusInterviewScheduled, true},
		{"backward move", StatusInterviewScheduled, StatusReviewed, true},
		{"into hired", StatusInterviewScheduled, StatusHired, true},
		{"into rejected", StatusNew, StatusRejected, true},
		{"out of hired", StatusHired, StatusReviewed, false},
		{"out of rejected", StatusRejected, StatusNew, false},
		{"hired to rejected", StatusHired, StatusRejected, false},
		{"no-op transition", StatusReviewed, StatusReviewed, false},
		{"unknown source", Status("applied"), StatusReviewed, false},
		{"unknown target", StatusNew, Status("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.allowed && err != nil {
				t.Errorf("CanTransition(%s, %s) = %v, want nil", tt.from, tt.to, err)
			}
			if !tt.allowed && !apperror.Is(err, apperror.ErrInvalidTransition) {
				t.Errorf("CanTransition(%s, %s) = %v, want ErrInvalidTransition", tt.from, tt.to, err)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusHired, StatusRejected} {
		if !Terminal(s) {
			t.Errorf("Terminal(%s) = false, want true", s)
		}
	}
	for _, s := range []Status{StatusNew, StatusReviewed, StatusShortlisted, StatusInterviewScheduled} {
		if Terminal(s) {
			t.Errorf("Terminal(%s) = true, want false", s)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"applied", StatusNew, true},
		{"new", StatusNew, true},
		{"viewed", StatusReviewed, true},
		{"reviewed", StatusReviewed, true},
		{"shortlisted", StatusShortlisted, true},
		{"interview", StatusInterviewScheduled, true},
		{"scheduled", StatusInterviewScheduled, true},
		{"selected", StatusHired, true},
		{"hired", StatusHired, true},
		{"rejected", StatusRejected, true},
		{"  Applied  ", StatusNew, true},
		{"SELECTED", StatusHired, true},
		{"withdrawn", Status("withdrawn"), false},
		{"", Status(""), false},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.raw)
		if ok != tt.ok {
			t.Errorf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Normalize(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range Canonical() {
		got, ok := Normalize(s)
		if !ok {
			t.Errorf("Normalize(%q) should accept canonical input", s)
		}
		if string(got) != s {
			t.Errorf("Normalize(%q) = %s, canonical labels must pass through unchanged", s, got)
		}
	}

	// Applying the mapping twice never changes the result.
	for raw := range legacyStatuses {
		once, ok := Normalize(raw)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly failed", raw)
		}
		twice, ok := Normalize(string(once))
		if !ok || twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %s, want %s", raw, twice, once)
		}
	}
}

func TestFunnelStagesExcludeRejected(t *testing.T) {
	for _, s := range FunnelStages {
		if s == StatusRejected {
			t.Fatal("Rejected must not be a funnel stage")
		}
	}
	if FunnelStages[0] != StatusNew || FunnelStages[len(FunnelStages)-1] != StatusHired {
		t.Errorf("funnel order wrong: %v", FunnelStages)
	}
}
