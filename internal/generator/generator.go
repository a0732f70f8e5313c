// Package generator produces interaction records between random entity
// pairs such that intervals of the same pair never overlap.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoSim-25-26J-441/datagen/internal/interval"
	"github.com/GoSim-25-26J-441/datagen/pkg/logger"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

var (
	// ErrInvalidParams wraps every configuration error detected before generation.
	ErrInvalidParams      = errors.New("invalid generation parameters")
	ErrTooFewEntities     = errors.New("at least two entities are required")
	ErrInvalidRecordCount = errors.New("record count cannot be negative")
)

const (
	// ctxCheckInterval is how many attempts run between context checks.
	ctxCheckInterval = 1024
	// maxPrealloc caps the initial record capacity for large requests.
	maxPrealloc = 1 << 16
)

// Params describes one generation run
type Params struct {
	NumEntities int
	NumRecords  int
	WindowStart time.Time
	WindowEnd   time.Time
}

// Result holds accepted records in acceptance order
type Result struct {
	Records []models.Interaction
	Stats   models.GenerationStats
}

// Generator runs the sample-check-accept loop. It shares its random source
// with the sampler so the draw order is fixed: pair, start, end.
type Generator struct {
	rng     interval.Rand
	sampler *interval.Sampler
	log     *slog.Logger
}

// NewGenerator creates a generator drawing pairs from rng and intervals from sampler
func NewGenerator(rng interval.Rand, sampler *interval.Sampler) *Generator {
	return &Generator{
		rng:     rng,
		sampler: sampler,
		log:     logger.Default,
	}
}

// WithLogger replaces the logger used for progress messages
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	g.log = l
	return g
}

// Validate checks p before any sampling happens
func (g *Generator) Validate(p Params) error {
	if p.NumEntities < 2 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidParams, ErrTooFewEntities, p.NumEntities)
	}
	if p.NumRecords < 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidParams, ErrInvalidRecordCount, p.NumRecords)
	}
	if err := g.sampler.CheckWindow(p.WindowStart, p.WindowEnd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

// Generate makes p.NumRecords attempts. Attempts whose interval overlaps an
// earlier one of the same pair are dropped, not retried, so the result may
// hold fewer records than requested.
func (g *Generator) Generate(ctx context.Context, p Params) (*Result, error) {
	if err := g.Validate(p); err != nil {
		return nil, err
	}

	history := NewHistory()
	res := &Result{Records: make([]models.Interaction, 0, min(p.NumRecords, maxPrealloc))}

	for i := 0; i < p.NumRecords; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		res.Stats.Attempts++

		low, high := g.drawPair(p.NumEntities)

		start, err := g.sampler.SampleStart(p.WindowStart, p.WindowEnd)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", i, err)
		}
		end, err := g.sampler.SampleEnd(start, p.WindowEnd)
		if errors.Is(err, interval.ErrInfeasibleEnd) {
			res.Stats.Infeasible++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", i, err)
		}

		if history.Overlaps(low, high, start, end) {
			res.Stats.Rejected++
			continue
		}

		res.Records = append(res.Records, models.Interaction{
			EntityLow:  low,
			EntityHigh: high,
			Start:      start,
			End:        end,
		})
		history.Add(low, high, start, end)
		res.Stats.Accepted++
	}

	g.log.Debug("generation finished",
		"entities", p.NumEntities,
		"attempts", res.Stats.Attempts,
		"accepted", res.Stats.Accepted,
		"rejected", res.Stats.Rejected,
		"infeasible", res.Stats.Infeasible)

	return res, nil
}

// drawPair draws two distinct entities from [1, n] without replacement and
// returns them in ascending order.
func (g *Generator) drawPair(n int) (int, int) {
	a := g.rng.Intn(n) + 1
	b := g.rng.Intn(n-1) + 1
	if b >= a {
		b++
	}
	if a > b {
		a, b = b, a
	}
	return a, b
}
