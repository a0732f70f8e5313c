// Package interval samples random interaction start and end times inside a
// global time window.
//
// Every draw that violates its bound is redrawn in a loop capped at
// MaxAttempts; when the cap is hit the sampler returns ErrRetryExhausted
// instead of spinning.
package interval

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultMinDuration = time.Minute
	DefaultMaxDuration = 8 * time.Hour
	DefaultMaxAttempts = 1_000_000
)

var (
	// ErrRetryExhausted is returned when no draw satisfied the bound within MaxAttempts.
	ErrRetryExhausted = errors.New("sampling retries exhausted")
	// ErrInfeasibleEnd is returned when no duration in range can end before the window end.
	ErrInfeasibleEnd = errors.New("no feasible end time")
	// ErrInvalidWindow is returned when the window end is not after its start.
	ErrInvalidWindow = errors.New("invalid time window")
	// ErrWindowTooSmall is returned when the window cannot hold a minimum-length interaction.
	ErrWindowTooSmall = errors.New("time window smaller than minimum interaction duration")
)

// Rand is the random source consumed by the sampler.
// utils.RandSource satisfies it.
type Rand interface {
	Intn(n int) int
	Int63n(n int64) int64
}

// Options configures a Sampler. Zero values select the defaults.
type Options struct {
	MinDuration time.Duration
	MaxDuration time.Duration
	MaxAttempts int
}

// Sampler draws start and end times at whole-second granularity.
type Sampler struct {
	rng         Rand
	minSeconds  int64
	maxSeconds  int64
	maxAttempts int
}

// NewSampler creates a sampler drawing from rng
func NewSampler(rng Rand, opts Options) (*Sampler, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if opts.MinDuration == 0 {
		opts.MinDuration = DefaultMinDuration
	}
	if opts.MaxDuration == 0 {
		opts.MaxDuration = DefaultMaxDuration
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	minSeconds := int64(opts.MinDuration / time.Second)
	maxSeconds := int64(opts.MaxDuration / time.Second)
	if minSeconds <= 0 {
		return nil, fmt.Errorf("minimum duration must be at least one second, got %s", opts.MinDuration)
	}
	if maxSeconds < minSeconds {
		return nil, fmt.Errorf("maximum duration %s below minimum %s", opts.MaxDuration, opts.MinDuration)
	}
	if opts.MaxAttempts < 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", opts.MaxAttempts)
	}

	return &Sampler{
		rng:         rng,
		minSeconds:  minSeconds,
		maxSeconds:  maxSeconds,
		maxAttempts: opts.MaxAttempts,
	}, nil
}

// MinDuration returns the shortest interaction the sampler produces
func (s *Sampler) MinDuration() time.Duration {
	return time.Duration(s.minSeconds) * time.Second
}

// CheckWindow reports a configuration error for windows that cannot hold
// a single interaction of minimum duration.
func (s *Sampler) CheckWindow(windowStart, windowEnd time.Time) error {
	if !windowEnd.After(windowStart) {
		return fmt.Errorf("%w: end %s not after start %s", ErrInvalidWindow, windowEnd, windowStart)
	}
	if windowEnd.Sub(windowStart) <= s.MinDuration() {
		return fmt.Errorf("%w: span %s, minimum %s", ErrWindowTooSmall, windowEnd.Sub(windowStart), s.MinDuration())
	}
	return nil
}

// SampleStart draws t with windowStart <= t < windowEnd.
//
// The offset is drawn from [0, span] seconds with an inclusive upper bound;
// draws landing on windowEnd are redrawn.
func (s *Sampler) SampleStart(windowStart, windowEnd time.Time) (time.Time, error) {
	if !windowEnd.After(windowStart) {
		return time.Time{}, fmt.Errorf("%w: end %s not after start %s", ErrInvalidWindow, windowEnd, windowStart)
	}
	span := int64(windowEnd.Sub(windowStart) / time.Second)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		t := windowStart.Add(time.Duration(s.rng.Int63n(span+1)) * time.Second)
		if t.Before(windowEnd) {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: start after %d attempts", ErrRetryExhausted, s.maxAttempts)
}

// SampleEnd draws t = start + d with d uniform in [min, max] seconds and
// start < t < windowEnd. Draws at or past windowEnd are redrawn.
func (s *Sampler) SampleEnd(start, windowEnd time.Time) (time.Time, error) {
	// Every d >= min lands at or past windowEnd; redrawing cannot help.
	if windowEnd.Sub(start) <= s.MinDuration() {
		return time.Time{}, fmt.Errorf("%w: %s left before window end, minimum duration %s",
			ErrInfeasibleEnd, windowEnd.Sub(start), s.MinDuration())
	}

	width := s.maxSeconds - s.minSeconds + 1
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		d := s.minSeconds + s.rng.Int63n(width)
		t := start.Add(time.Duration(d) * time.Second)
		if t.Before(windowEnd) {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: end after %d attempts", ErrRetryExhausted, s.maxAttempts)
}
