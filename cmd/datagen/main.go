package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GoSim-25-26J-441/datagen/internal/export"
	"github.com/GoSim-25-26J-441/datagen/pkg/config"
	"github.com/GoSim-25-26J-441/datagen/pkg/logger"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

type options struct {
	configPath string
	seed       int64
	outputDir  string
	logLevel   string
	verify     bool
	set        map[string]bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "config file (.yaml, .yml or .toml); defaults are used when empty")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed, 0 picks a time-based seed")
	flag.StringVar(&opts.outputDir, "out", "", "output directory")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.BoolVar(&opts.verify, "verify", false, "re-read every exported dataset and check its invariants")
	flag.Parse()

	opts.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Defaults()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}
	if opts.set["out"] {
		cfg.OutputDir = opts.outputDir
	}
	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func verify(cfg *config.Config, summaries []models.DatasetSummary) error {
	windowStart, windowEnd, err := cfg.Window.Bounds()
	if err != nil {
		return err
	}
	for _, s := range summaries {
		n, err := export.VerifyFile(s.Location, windowStart, windowEnd)
		if err != nil {
			return err
		}
		if n != s.Records {
			return fmt.Errorf("%s: expected %d records, read %d", s.Location, s.Records, n)
		}
		logger.Debug("dataset verified", "location", s.Location, "records", n)
	}
	logger.Info("datasets verified", "count", len(summaries))
	return nil
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.NewText(cfg.LogLevel, os.Stderr))

	driver := export.NewDriver(cfg, export.NewFileSink(cfg.OutputDir))
	log := logger.ForRun(utils.GenerateRunID(), driver.Seed())
	driver.WithLogger(log)

	started := time.Now()
	log.Info("export started",
		"output_dir", cfg.OutputDir,
		"entity_counts", cfg.EntityCounts,
		"avg_interactions", cfg.AvgInteractions)

	summaries, err := driver.Run(ctx)
	if err != nil {
		log.Error("export failed", "written", len(summaries), "error", err)
		return err
	}

	var records int
	for _, s := range summaries {
		records += s.Records
	}
	log.Info("export finished",
		"datasets", len(summaries),
		"records", records,
		"elapsed", utils.FormatDuration(time.Since(started)))

	if opts.verify {
		return verify(cfg, summaries)
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "datagen: %v\n", err)
		stop()
		os.Exit(1)
	}
}
