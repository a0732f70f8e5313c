package generator

import (
	"time"

	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

// HistoryEntry is an accepted interval for the pair (bucket key, Other).
type HistoryEntry struct {
	Other int
	Start time.Time
	End   time.Time
}

// History holds every accepted interval of one generation run, bucketed by
// the lower entity of the pair. It only grows.
type History struct {
	buckets map[int][]HistoryEntry
	size    int
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{buckets: make(map[int][]HistoryEntry)}
}

// Overlaps reports whether [start, end) intersects an accepted interval of
// the pair (low, high). low must be the lower entity.
func (h *History) Overlaps(low, high int, start, end time.Time) bool {
	for _, e := range h.buckets[low] {
		if e.Other == high && models.IntervalsOverlap(start, end, e.Start, e.End) {
			return true
		}
	}
	return false
}

// Add records an accepted interval for the pair (low, high)
func (h *History) Add(low, high int, start, end time.Time) {
	h.buckets[low] = append(h.buckets[low], HistoryEntry{Other: high, Start: start, End: end})
	h.size++
}

// Bucket returns the entries keyed by low, in acceptance order
func (h *History) Bucket(low int) []HistoryEntry {
	return h.buckets[low]
}

// Len returns the number of accepted intervals
func (h *History) Len() int {
	return h.size
}
