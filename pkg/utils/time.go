package utils

import (
	"fmt"
	"time"
)

const (
	// StampLayout is the fourteen-digit YYYYMMDDHHMMSS form used in exported datasets.
	StampLayout = "20060102150405"

	// NaiveLayout is the layout accepted for window bounds in configuration.
	NaiveLayout = "2006-01-02T15:04:05"
)

// FormatStamp renders t as YYYYMMDDHHMMSS using its wall clock, ignoring the zone.
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// ParseStamp parses a fourteen-digit YYYYMMDDHHMMSS timestamp as a naive (UTC) time.
func ParseStamp(s string) (time.Time, error) {
	if len(s) != len(StampLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q must have %d digits", s, len(StampLayout))
	}
	t, err := time.Parse(StampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseNaive parses a naive date-time. A bare date (2006-01-02) is also accepted.
// Fractional seconds are rejected: exported timestamps have whole-second precision.
func ParseNaive(s string) (time.Time, error) {
	t, err := time.Parse(NaiveLayout, s)
	if err != nil {
		t, err = time.Parse(time.DateOnly, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q (want %s): %w", s, NaiveLayout, err)
	}
	if t.Nanosecond() != 0 {
		return time.Time{}, fmt.Errorf("invalid date-time %q: must be whole seconds", s)
	}
	return t, nil
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
