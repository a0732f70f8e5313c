// Package export drives generation over a grid of entity counts and
// average interactions per entity and persists one CSV per combination.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoSim-25-26J-441/datagen/internal/generator"
	"github.com/GoSim-25-26J-441/datagen/internal/interval"
	"github.com/GoSim-25-26J-441/datagen/pkg/config"
	"github.com/GoSim-25-26J-441/datagen/pkg/logger"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

// Driver runs exports. Each Run seeds one random source and every dataset
// of that run draws from it in grid order, so repeated runs are identical.
type Driver struct {
	cfg  *config.Config
	sink Sink
	log  *slog.Logger
	seed int64
}

// NewDriver creates a driver for cfg writing through sink
func NewDriver(cfg *config.Config, sink Sink) *Driver {
	return &Driver{
		cfg:  cfg,
		sink: sink,
		log:  logger.Default,
		seed: utils.ResolveSeed(cfg.Seed),
	}
}

// WithLogger replaces the logger
func (d *Driver) WithLogger(l *slog.Logger) *Driver {
	d.log = l
	return d
}

// Seed returns the effective seed, resolved if the config seed was 0
func (d *Driver) Seed() int64 {
	return d.seed
}

// Run generates and persists every dataset. On error it returns the
// summaries of the datasets already written together with the error.
func (d *Driver) Run(ctx context.Context) ([]models.DatasetSummary, error) {
	windowStart, windowEnd, err := d.cfg.Window.Bounds()
	if err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}

	rng := utils.NewRandSource(d.seed)
	sampler, err := interval.NewSampler(rng, interval.Options{
		MinDuration: d.cfg.Sampling.MinDuration(),
		MaxDuration: d.cfg.Sampling.MaxDuration(),
		MaxAttempts: d.cfg.Sampling.MaxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sampling options: %w", err)
	}
	gen := generator.NewGenerator(rng, sampler).WithLogger(d.log)
	namer := NewNamer(d.cfg.NameTemplate, d.cfg.SubsetNameTemplate, d.cfg.Label)

	// Reject bad windows before the first dataset so nothing is half-written.
	if err := sampler.CheckWindow(windowStart, windowEnd); err != nil {
		return nil, fmt.Errorf("%w: %w", generator.ErrInvalidParams, err)
	}

	var summaries []models.DatasetSummary
	for _, entities := range d.cfg.EntityCounts {
		for _, avg := range d.cfg.AvgInteractions {
			started := time.Now()
			params := generator.Params{
				NumEntities: entities,
				NumRecords:  entities * avg,
				WindowStart: windowStart,
				WindowEnd:   windowEnd,
			}

			res, err := gen.Generate(ctx, params)
			if err != nil {
				return summaries, fmt.Errorf("generate %d entities x %d: %w", entities, avg, err)
			}

			name := namer.DatasetName(entities, avg)
			location, err := d.sink.Write(ctx, name, res.Records)
			if err != nil {
				return summaries, fmt.Errorf("export %s: %w", name, err)
			}

			summary := models.DatasetSummary{
				Name:             name,
				Location:         location,
				EntityCount:      entities,
				AvgInteractions:  avg,
				RequestedRecords: params.NumRecords,
				Stats:            res.Stats,
			}
			generator.Summarize(&summary, res.Records)
			summaries = append(summaries, summary)

			d.log.Info("dataset exported",
				"name", name,
				"location", location,
				"records", summary.Records,
				"requested", summary.RequestedRecords,
				"rejected", res.Stats.Rejected,
				"elapsed", utils.FormatDuration(time.Since(started)))

			subsets, err := d.exportSubsets(ctx, rng, namer, summary, res.Records)
			summaries = append(summaries, subsets...)
			if err != nil {
				return summaries, err
			}
		}
	}

	return summaries, nil
}

// exportSubsets writes random samples, drawn without replacement, of a
// generated dataset. Sizes not smaller than the dataset are skipped.
func (d *Driver) exportSubsets(ctx context.Context, rng *utils.RandSource, namer *Namer, parent models.DatasetSummary, records []models.Interaction) ([]models.DatasetSummary, error) {
	var out []models.DatasetSummary
	for _, size := range d.cfg.SubsetSizes {
		if size >= len(records) {
			d.log.Warn("subset skipped, dataset too small",
				"dataset", parent.Name, "size", size, "records", len(records))
			continue
		}

		subset := make([]models.Interaction, 0, size)
		for _, idx := range rng.Sample(len(records), size) {
			subset = append(subset, records[idx])
		}

		name := namer.SubsetName(parent.EntityCount, parent.AvgInteractions, size)
		location, err := d.sink.Write(ctx, name, subset)
		if err != nil {
			return out, fmt.Errorf("export %s: %w", name, err)
		}

		summary := models.DatasetSummary{
			Name:             name,
			Location:         location,
			EntityCount:      parent.EntityCount,
			AvgInteractions:  parent.AvgInteractions,
			RequestedRecords: size,
			SubsetOf:         parent.Name,
		}
		generator.Summarize(&summary, subset)
		out = append(out, summary)

		d.log.Info("subset exported", "name", name, "location", location, "of", parent.Name, "records", size)
	}
	return out, nil
}
