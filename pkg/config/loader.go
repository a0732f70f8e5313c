package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environment variables that override file configuration
const (
	EnvSeed      = "DATAGEN_SEED"
	EnvOutputDir = "DATAGEN_OUTPUT_DIR"
	EnvLogLevel  = "DATAGEN_LOG_LEVEL"
	EnvLabel     = "DATAGEN_LABEL"
)

// FormatFromPath picks the config format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("cannot infer config format from %s (want .yaml, .yml or .toml)", path)
	}
}

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides overrides fields from DATAGEN_* environment variables.
// The result is re-validated.
func ApplyEnvOverrides(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvLabel); ok {
		cfg.Label = v
	}
	return Validate(cfg)
}

// Validate performs validation on the configuration
func Validate(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if len(cfg.EntityCounts) == 0 {
		return fmt.Errorf("at least one entity count must be defined")
	}
	for _, n := range cfg.EntityCounts {
		if n < 2 {
			return fmt.Errorf("entity count must be at least 2, got %d", n)
		}
	}

	if len(cfg.AvgInteractions) == 0 {
		return fmt.Errorf("at least one avg_interactions value must be defined")
	}
	for _, avg := range cfg.AvgInteractions {
		if avg < 1 {
			return fmt.Errorf("avg_interactions must be positive, got %d", avg)
		}
	}

	if err := validateSampling(cfg.Sampling); err != nil {
		return fmt.Errorf("sampling validation failed: %w", err)
	}

	if err := validateWindow(cfg.Window, cfg.Sampling); err != nil {
		return fmt.Errorf("window validation failed: %w", err)
	}

	if strings.TrimSpace(cfg.NameTemplate) == "" {
		return fmt.Errorf("name_template cannot be empty")
	}

	for _, size := range cfg.SubsetSizes {
		if size < 1 {
			return fmt.Errorf("subset size must be positive, got %d", size)
		}
	}
	if len(cfg.SubsetSizes) > 0 {
		if !strings.Contains(cfg.SubsetNameTemplate, "{size}") {
			return fmt.Errorf("subset_name_template must contain {size} when subset_sizes is set")
		}
	}

	return nil
}

// maxDurationSeconds is the largest duration representable as a time.Duration
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// validateSampling validates the sampler settings
func validateSampling(s Sampling) error {
	if s.MinDurationSeconds <= 0 {
		return fmt.Errorf("min_duration_seconds must be positive, got %d", s.MinDurationSeconds)
	}
	if s.MinDurationSeconds > maxDurationSeconds {
		return fmt.Errorf("min_duration_seconds cannot exceed %d, got %d", maxDurationSeconds, s.MinDurationSeconds)
	}
	if s.MaxDurationSeconds > maxDurationSeconds {
		return fmt.Errorf("max_duration_seconds cannot exceed %d, got %d", maxDurationSeconds, s.MaxDurationSeconds)
	}
	if s.MaxDurationSeconds < s.MinDurationSeconds {
		return fmt.Errorf("max_duration_seconds (%d) cannot be below min_duration_seconds (%d)", s.MaxDurationSeconds, s.MinDurationSeconds)
	}
	if s.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be positive, got %d", s.MaxAttempts)
	}
	return nil
}

// validateWindow validates the global time window against the minimum duration
func validateWindow(w Window, s Sampling) error {
	start, end, err := w.Bounds()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("end %s must be after start %s", w.End, w.Start)
	}
	// No interaction fits unless the span exceeds the minimum duration.
	if end.Sub(start) <= s.MinDuration() {
		return fmt.Errorf("span %s must exceed the minimum interaction duration %s", end.Sub(start), s.MinDuration())
	}
	return nil
}
