package gend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/datagen/internal/export"
	"github.com/GoSim-25-26J-441/datagen/pkg/config"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

var (
	ErrRunExists    = errors.New("run already exists")
	ErrInvalidRunID = errors.New("invalid run id")
)

// RunRecord holds a run together with its resolved config and the sink its
// datasets are written to.
type RunRecord struct {
	Run    models.Run
	Config *config.Config
	Sink   *export.MemorySink
}

type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// Create registers a pending run. An empty runID is generated. The config
// seed is resolved here so the run reports the seed it will use.
func (s *RunStore) Create(runID string, cfg *config.Config) (models.Run, error) {
	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if err := utils.ValidateRunID(runID); err != nil {
		return models.Run{}, fmt.Errorf("%w: %w", ErrInvalidRunID, err)
	}

	resolved := *cfg
	resolved.Seed = utils.ResolveSeed(cfg.Seed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[runID]; exists {
		return models.Run{}, fmt.Errorf("%w: %s", ErrRunExists, runID)
	}

	rec := &RunRecord{
		Run: models.Run{
			ID:        runID,
			Status:    models.RunStatusPending,
			Seed:      resolved.Seed,
			CreatedAt: now(),
		},
		Config: &resolved,
		Sink:   export.NewMemorySink(),
	}
	s.runs[runID] = rec
	return rec.Run, nil
}

// Get returns a snapshot of the run record. Config and Sink are shared.
func (s *RunStore) Get(runID string) (RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return RunRecord{}, false
	}
	return snapshot(rec), true
}

// List returns runs newest first, skipping offset and filtering by status
// when status is non-empty.
func (s *RunStore) List(limit, offset int, status models.RunStatus) []models.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	all := make([]models.Run, 0, len(s.runs))
	for _, rec := range s.runs {
		if status != "" && rec.Run.Status != status {
			continue
		}
		all = append(all, snapshot(rec).Run)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []models.Run{}
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// SetStatus moves a run to status. Terminal runs never change again, so a
// late completion cannot overwrite a cancellation.
func (s *RunStore) SetStatus(runID string, status models.RunStatus, errMsg string) (models.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return models.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status.IsTerminal() {
		return snapshot(rec).Run, fmt.Errorf("%w: %s is %s", ErrRunTerminal, runID, rec.Run.Status)
	}

	rec.Run.Status = status
	if errMsg != "" {
		rec.Run.Error = errMsg
	}

	switch status {
	case models.RunStatusRunning:
		if rec.Run.StartedAt.IsZero() {
			rec.Run.StartedAt = now()
		}
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCancelled:
		rec.Run.EndedAt = now()
	}

	return snapshot(rec).Run, nil
}

// SetDatasets records the datasets exported by a run
func (s *RunStore) SetDatasets(runID string, datasets []models.DatasetSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	rec.Run.Datasets = append([]models.DatasetSummary(nil), datasets...)
	return nil
}

func snapshot(rec *RunRecord) RunRecord {
	out := *rec
	out.Run.Datasets = append([]models.DatasetSummary(nil), rec.Run.Datasets...)
	return out
}
