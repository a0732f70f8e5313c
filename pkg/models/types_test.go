package models

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2024, 1, 1, h, m, 0, 0, time.UTC)
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint before", at(0, 0), at(1, 0), at(2, 0), at(3, 0), false},
		{"disjoint after", at(2, 0), at(3, 0), at(0, 0), at(1, 0), false},
		{"touching end to start", at(0, 0), at(1, 0), at(1, 0), at(2, 0), false},
		{"touching start to end", at(1, 0), at(2, 0), at(0, 0), at(1, 0), false},
		{"partial overlap", at(0, 0), at(1, 30), at(1, 0), at(2, 0), true},
		{"contained", at(0, 0), at(3, 0), at(1, 0), at(2, 0), true},
		{"identical", at(0, 0), at(1, 0), at(0, 0), at(1, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalsOverlap(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("IntervalsOverlap = %v, want %v", got, tt.want)
			}
			// overlap is symmetric
			if got := IntervalsOverlap(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("IntervalsOverlap (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInteractionDurationAndOverlaps(t *testing.T) {
	rec := Interaction{EntityLow: 1, EntityHigh: 2, Start: at(0, 0), End: at(0, 45)}

	if rec.Duration() != 45*time.Minute {
		t.Errorf("Duration = %v, want 45m", rec.Duration())
	}
	if !rec.Overlaps(at(0, 30), at(1, 0)) {
		t.Error("expected overlap")
	}
	if rec.Overlaps(at(0, 45), at(1, 0)) {
		t.Error("touching interval should not overlap")
	}
}

func TestRunStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status RunStatus
		want   bool
	}{
		{RunStatusPending, false},
		{RunStatusRunning, false},
		{RunStatusCompleted, true},
		{RunStatusFailed, true},
		{RunStatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
