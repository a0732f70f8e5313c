package models

import (
	"time"
)

// Interaction is one accepted record between two entities.
// EntityLow < EntityHigh and Start is strictly before End.
type Interaction struct {
	EntityLow  int       `json:"entity_low"`
	EntityHigh int       `json:"entity_high"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Duration returns End - Start
func (i Interaction) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the half-open intervals [Start, End) and [start, end) intersect.
func (i Interaction) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(i.Start, i.End, start, end)
}

// IntervalsOverlap reports whether [s1, e1) and [s2, e2) intersect.
// Touching endpoints do not overlap.
func IntervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return !(!e1.After(s2) || !s1.Before(e2))
}

// GenerationStats counts the outcome of every attempt in a generation loop.
type GenerationStats struct {
	Attempts   int64 `json:"attempts"`
	Accepted   int64 `json:"accepted"`
	Rejected   int64 `json:"rejected"`
	Infeasible int64 `json:"infeasible"`
}

// DatasetSummary describes one exported dataset.
type DatasetSummary struct {
	Name             string          `json:"name"`
	Location         string          `json:"location,omitempty"`
	EntityCount      int             `json:"entity_count"`
	AvgInteractions  int             `json:"avg_interactions"`
	RequestedRecords int             `json:"requested_records"`
	Records          int             `json:"records"`
	DistinctPairs    int             `json:"distinct_pairs"`
	DurationMeanSec  float64         `json:"duration_mean_s"`
	DurationP50Sec   float64         `json:"duration_p50_s"`
	DurationP95Sec   float64         `json:"duration_p95_s"`
	SubsetOf         string          `json:"subset_of,omitempty"`
	Stats            GenerationStats `json:"stats"`
}

// RunStatus represents the status of a generation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// Run represents a dataset generation run submitted to the daemon
type Run struct {
	ID        string           `json:"id"`
	Status    RunStatus        `json:"status"`
	Seed      int64            `json:"seed"`
	CreatedAt time.Time        `json:"created_at"`
	StartedAt time.Time        `json:"started_at,omitempty"`
	EndedAt   time.Time        `json:"ended_at,omitempty"`
	Datasets  []DatasetSummary `json:"datasets,omitempty"`
	Error     string           `json:"error,omitempty"`
}
