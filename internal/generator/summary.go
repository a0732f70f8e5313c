package generator

import (
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

// Summarize fills the record-derived fields of a dataset summary
func Summarize(summary *models.DatasetSummary, records []models.Interaction) {
	pairs := make(map[pairKey]struct{})
	durations := make([]float64, 0, len(records))
	for _, r := range records {
		pairs[pairKey{r.EntityLow, r.EntityHigh}] = struct{}{}
		durations = append(durations, r.Duration().Seconds())
	}

	summary.Records = len(records)
	summary.DistinctPairs = len(pairs)
	summary.DurationMeanSec = utils.Round(utils.Mean(durations), 2)
	summary.DurationP50Sec = utils.Round(utils.P50(durations), 2)
	summary.DurationP95Sec = utils.Round(utils.P95(durations), 2)
}
