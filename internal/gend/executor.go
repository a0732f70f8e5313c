// Package gend serves dataset generation runs over HTTP and gRPC.
package gend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GoSim-25-26J-441/datagen/internal/export"
	"github.com/GoSim-25-26J-441/datagen/pkg/logger"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

// RunExecutor manages asynchronous run execution and per-run cancellation.
type RunExecutor struct {
	store *RunStore

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	done    map[string]chan struct{}
}

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

func NewRunExecutor(store *RunStore) *RunExecutor {
	return &RunExecutor{
		store:   store,
		cancels: make(map[string]context.CancelFunc),
		done:    make(map[string]chan struct{}),
	}
}

// Start begins executing a run asynchronously.
// Returns the updated run state (running) or an error.
func (e *RunExecutor) Start(runID string) (models.Run, error) {
	if runID == "" {
		return models.Run{}, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return models.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status == models.RunStatusRunning {
		return rec.Run, nil
	}
	if rec.Run.Status.IsTerminal() {
		return models.Run{}, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	// Register the cancel func first so a concurrent Stop always reaches it.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.done[runID] = done
	e.mu.Unlock()

	updated, err := e.store.SetStatus(runID, models.RunStatusRunning, "")
	if err != nil {
		e.cleanup(runID)
		close(done)
		return models.Run{}, err
	}

	go e.runGeneration(ctx, runID, rec, done)
	return updated, nil
}

// Stop requests cancellation for a run and marks it cancelled.
func (e *RunExecutor) Stop(runID string) (models.Run, error) {
	if runID == "" {
		return models.Run{}, ErrRunIDMissing
	}
	if _, ok := e.store.Get(runID); !ok {
		return models.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()

	if ok {
		cancel()
	}

	return e.store.SetStatus(runID, models.RunStatusCancelled, "")
}

// Wait blocks until the run's goroutine has finished or ctx is done.
// Runs that were never started return immediately.
func (e *RunExecutor) Wait(ctx context.Context, runID string) error {
	e.mu.Lock()
	done, ok := e.done[runID]
	e.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

func (e *RunExecutor) runGeneration(ctx context.Context, runID string, rec RunRecord, done chan struct{}) {
	defer close(done)
	defer e.cleanup(runID)

	log := logger.ForRun(runID, rec.Run.Seed)
	log.Info("starting generation",
		"entity_counts", rec.Config.EntityCounts,
		"avg_interactions", rec.Config.AvgInteractions)

	driver := export.NewDriver(rec.Config, rec.Sink).WithLogger(log)
	datasets, err := driver.Run(ctx)
	if setErr := e.store.SetDatasets(runID, datasets); setErr != nil {
		log.Error("failed to store datasets", "error", setErr)
	}

	if err != nil {
		if ctx.Err() != nil {
			log.Info("generation cancelled", "datasets", len(datasets))
			return
		}
		log.Error("generation failed", "error", err)
		if _, setErr := e.store.SetStatus(runID, models.RunStatusFailed, err.Error()); setErr != nil {
			log.Error("failed to set failed status", "error", setErr)
		}
		return
	}

	if _, err := e.store.SetStatus(runID, models.RunStatusCompleted, ""); err != nil {
		// Stopped after the last dataset was written.
		log.Warn("failed to set completed status", "error", err)
		return
	}
	log.Info("run completed", "datasets", len(datasets))
}
