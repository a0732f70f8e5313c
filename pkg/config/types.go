package config

import (
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

const (
	DefaultSeed               int64 = 42
	DefaultWindowStart              = "2024-01-01T00:00:00"
	DefaultWindowEnd                = "2025-01-01T00:00:00"
	DefaultMinDurationSeconds int64 = 60
	DefaultMaxDurationSeconds int64 = 8 * 60 * 60
	DefaultMaxAttempts              = 1_000_000
	DefaultNameTemplate             = "{label}_data_{entities}_{avg}.csv"
	DefaultSubsetNameTemplate       = "{label}_data_{entities}_{avg}_sample{size}.csv"
)

// Config represents the dataset generation configuration
type Config struct {
	LogLevel           string   `yaml:"log_level" toml:"log_level"`
	Seed               int64    `yaml:"seed" toml:"seed"`
	Window             Window   `yaml:"window" toml:"window"`
	EntityCounts       []int    `yaml:"entity_counts" toml:"entity_counts"`
	AvgInteractions    []int    `yaml:"avg_interactions" toml:"avg_interactions"`
	Label              string   `yaml:"label" toml:"label"`
	OutputDir          string   `yaml:"output_dir" toml:"output_dir"`
	NameTemplate       string   `yaml:"name_template" toml:"name_template"`
	SubsetSizes        []int    `yaml:"subset_sizes,omitempty" toml:"subset_sizes,omitempty"`
	SubsetNameTemplate string   `yaml:"subset_name_template" toml:"subset_name_template"`
	Sampling           Sampling `yaml:"sampling" toml:"sampling"`
}

// Window is the global time window [start, end) every timestamp falls in.
// Bounds are naive date-times (2006-01-02T15:04:05).
type Window struct {
	Start string `yaml:"start" toml:"start"`
	End   string `yaml:"end" toml:"end"`
}

// Sampling controls the interval sampler
type Sampling struct {
	MinDurationSeconds int64 `yaml:"min_duration_seconds" toml:"min_duration_seconds"`
	MaxDurationSeconds int64 `yaml:"max_duration_seconds" toml:"max_duration_seconds"`
	MaxAttempts        int   `yaml:"max_attempts" toml:"max_attempts"`
}

// Defaults returns a configuration populated with default values
func Defaults() *Config {
	return &Config{
		LogLevel:           "info",
		Seed:               DefaultSeed,
		Window:             Window{Start: DefaultWindowStart, End: DefaultWindowEnd},
		EntityCounts:       []int{1000},
		AvgInteractions:    []int{20},
		OutputDir:          ".",
		NameTemplate:       DefaultNameTemplate,
		SubsetNameTemplate: DefaultSubsetNameTemplate,
		Sampling: Sampling{
			MinDurationSeconds: DefaultMinDurationSeconds,
			MaxDurationSeconds: DefaultMaxDurationSeconds,
			MaxAttempts:        DefaultMaxAttempts,
		},
	}
}

// Bounds parses the window into start and end times
func (w Window) Bounds() (time.Time, time.Time, error) {
	start, err := utils.ParseNaive(w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window start: %w", err)
	}
	end, err := utils.ParseNaive(w.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window end: %w", err)
	}
	return start, end, nil
}

// MinDuration returns the minimum interaction duration
func (s Sampling) MinDuration() time.Duration {
	return time.Duration(s.MinDurationSeconds) * time.Second
}

// MaxDuration returns the maximum interaction duration
func (s Sampling) MaxDuration() time.Duration {
	return time.Duration(s.MaxDurationSeconds) * time.Second
}
