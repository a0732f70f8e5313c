package utils

import (
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{60}, 60},
		{"several", []float64{60, 120, 180}, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); got != tt.want {
				t.Errorf("Mean = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	if got := P50(values); got != 3 {
		t.Errorf("P50 = %f, want 3", got)
	}
	if got := Percentile(values, 0); got != 1 {
		t.Errorf("P0 = %f, want 1", got)
	}
	if got := Percentile(values, 100); got != 5 {
		t.Errorf("P100 = %f, want 5", got)
	}
	// index 0.95*4 = 3.8 -> 4 + 0.8*(5-4)
	if got := Round(P95(values), 6); got != 4.8 {
		t.Errorf("P95 = %f, want 4.8", got)
	}
	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("Percentile(nil) = %f, want 0", got)
	}
	// input must not be reordered
	if values[0] != 5 {
		t.Error("Percentile modified its input")
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159, 2); got != 3.14 {
		t.Errorf("Round = %f, want 3.14", got)
	}
	if got := Round(2.5, 0); got != 3 {
		t.Errorf("Round = %f, want 3", got)
	}
}
