package utils

import (
	"testing"
	"time"
)

func TestFormatStamp(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "20240101000000"},
		{time.Date(2024, 5, 10, 11, 40, 0, 0, time.UTC), "20240510114000"},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "20241231235959"},
		// Zone is ignored, the wall clock is rendered
		{time.Date(2024, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600)), "20240304050607"},
	}

	for _, tt := range tests {
		if got := FormatStamp(tt.in); got != tt.want {
			t.Errorf("FormatStamp(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseStamp(t *testing.T) {
	got, err := ParseStamp("20240510114000")
	if err != nil {
		t.Fatalf("ParseStamp error: %v", err)
	}
	want := time.Date(2024, 5, 10, 11, 40, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseStamp = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2024051011400", "2024051011400x", "20241332000000"} {
		if _, err := ParseStamp(bad); err == nil {
			t.Errorf("ParseStamp(%q) expected error", bad)
		}
	}
}

func TestParseNaive(t *testing.T) {
	got, err := ParseNaive("2024-01-01T01:00:00")
	if err != nil {
		t.Fatalf("ParseNaive error: %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected time %v", got)
	}

	got, err = ParseNaive("2025-01-01")
	if err != nil {
		t.Fatalf("ParseNaive date-only error: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected time %v", got)
	}

	if _, err := ParseNaive("yesterday"); err == nil {
		t.Error("expected error for invalid date")
	}
	for _, s := range []string{"2024-01-01T00:00:00.9", "2024-01-01T00:00:00.000001"} {
		if _, err := ParseNaive(s); err == nil {
			t.Errorf("expected error for fractional seconds in %q", s)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{1500 * time.Microsecond, "2ms"},
		{1234 * time.Millisecond, "1.23s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
