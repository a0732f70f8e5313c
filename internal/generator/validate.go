package generator

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/GoSim-25-26J-441/datagen/pkg/models"
)

// ErrInvariantViolated is returned by Validate for an inconsistent record set.
var ErrInvariantViolated = errors.New("dataset invariant violated")

type pairKey struct {
	low, high int
}

type recordKey struct {
	pair       pairKey
	start, end int64
}

// Validate checks that every record is canonical (low < high), has
// start < end, is unique, and that intervals of one pair never overlap.
func Validate(records []models.Interaction) error {
	seen := make(map[recordKey]int, len(records))
	byPair := make(map[pairKey][]models.Interaction)

	for i, r := range records {
		if r.EntityLow >= r.EntityHigh {
			return fmt.Errorf("%w: record %d: entities %d,%d not in ascending order", ErrInvariantViolated, i, r.EntityLow, r.EntityHigh)
		}
		if !r.Start.Before(r.End) {
			return fmt.Errorf("%w: record %d: start %s not before end %s", ErrInvariantViolated, i, r.Start, r.End)
		}
		k := pairKey{r.EntityLow, r.EntityHigh}
		rk := recordKey{pair: k, start: r.Start.UnixNano(), end: r.End.UnixNano()}
		if j, dup := seen[rk]; dup {
			return fmt.Errorf("%w: record %d duplicates record %d", ErrInvariantViolated, i, j)
		}
		seen[rk] = i
		byPair[k] = append(byPair[k], r)
	}

	for k, recs := range byPair {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Start.Before(recs[j].Start) })
		for i := 1; i < len(recs); i++ {
			if recs[i-1].Overlaps(recs[i].Start, recs[i].End) {
				return fmt.Errorf("%w: pair %d,%d has overlapping intervals starting %s and %s",
					ErrInvariantViolated, k.low, k.high, recs[i-1].Start, recs[i].Start)
			}
		}
	}
	return nil
}

// ValidateWindow checks that every timestamp lies in [windowStart, windowEnd).
func ValidateWindow(records []models.Interaction, windowStart, windowEnd time.Time) error {
	for i, r := range records {
		if r.Start.Before(windowStart) || !r.End.Before(windowEnd) {
			return fmt.Errorf("%w: record %d: [%s, %s) outside window [%s, %s)",
				ErrInvariantViolated, i, r.Start, r.End, windowStart, windowEnd)
		}
	}
	return nil
}
