package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/datagen/internal/interval"
	"github.com/GoSim-25-26J-441/datagen/pkg/models"
	"github.com/GoSim-25-26J-441/datagen/pkg/utils"
)

// scriptedRand replays values in order, reduced modulo n. When the script
// runs out it repeats the last value.
type scriptedRand struct {
	values []int64
	calls  int
}

func (r *scriptedRand) next() int64 {
	i := r.calls
	if i >= len(r.values) {
		i = len(r.values) - 1
	}
	r.calls++
	return r.values[i]
}

func (r *scriptedRand) Int63n(n int64) int64 { return r.next() % n }
func (r *scriptedRand) Intn(n int) int       { return int(r.next() % int64(n)) }

type maxRand struct{}

func (maxRand) Int63n(n int64) int64 { return n - 1 }
func (maxRand) Intn(n int) int       { return n - 1 }

var (
	hourStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hourEnd   = time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	yearEnd   = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func newGenerator(t *testing.T, rng interval.Rand, opts interval.Options) *Generator {
	t.Helper()
	sampler, err := interval.NewSampler(rng, opts)
	require.NoError(t, err)
	return NewGenerator(rng, sampler)
}

func seeded(t *testing.T, seed int64) *Generator {
	return newGenerator(t, utils.NewRandSource(seed), interval.Options{})
}

func at(m, sec int) time.Time {
	return hourStart.Add(time.Duration(m)*time.Minute + time.Duration(sec)*time.Second)
}

func TestGenerateGoldenScriptedScenario(t *testing.T) {
	// Per attempt: Intn(3), Intn(2), start offset(s), duration draw(s).
	rng := &scriptedRand{values: []int64{
		0, 1, 600, 540, // (1,3) 00:10-00:20 accepted
		2, 0, 900, 240, // (1,3) 00:15-00:20 overlaps, rejected
		1, 0, 900, 2640, 1140, // (1,2) 00:15, end 01:00 redrawn, 00:35 accepted
		0, 1, 1200, 0, // (1,3) 00:20-00:21 touches first record, accepted
		2, 1, 3570, // (2,3) 00:59:30, no duration fits: infeasible
	}}
	g := newGenerator(t, rng, interval.Options{})

	res, err := g.Generate(context.Background(), Params{
		NumEntities: 3,
		NumRecords:  5,
		WindowStart: hourStart,
		WindowEnd:   hourEnd,
	})
	require.NoError(t, err)

	want := []models.Interaction{
		{EntityLow: 1, EntityHigh: 3, Start: at(10, 0), End: at(20, 0)},
		{EntityLow: 1, EntityHigh: 2, Start: at(15, 0), End: at(35, 0)},
		{EntityLow: 1, EntityHigh: 3, Start: at(20, 0), End: at(21, 0)},
	}
	assert.Equal(t, want, res.Records)
	assert.Equal(t, models.GenerationStats{Attempts: 5, Accepted: 3, Rejected: 1, Infeasible: 1}, res.Stats)
	assert.Equal(t, 20, rng.calls)
}

func TestGenerateSeededScenarioIsDeterministic(t *testing.T) {
	p := Params{NumEntities: 3, NumRecords: 5, WindowStart: hourStart, WindowEnd: hourEnd}

	first, err := seeded(t, 42).Generate(context.Background(), p)
	require.NoError(t, err)
	second, err := seeded(t, 42).Generate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Stats, second.Stats)
	assert.LessOrEqual(t, len(first.Records), 5)
	require.NoError(t, Validate(first.Records))
	require.NoError(t, ValidateWindow(first.Records, hourStart, hourEnd))
}

func TestGenerateInvariants(t *testing.T) {
	tests := []struct {
		name    string
		seed    int64
		params  Params
		denseOK bool
	}{
		{"year window, sparse", 42, Params{NumEntities: 50, NumRecords: 1000, WindowStart: hourStart, WindowEnd: yearEnd}, false},
		{"hour window, three entities", 7, Params{NumEntities: 3, NumRecords: 300, WindowStart: hourStart, WindowEnd: hourEnd}, true},
		{"two entities, dense", 99, Params{NumEntities: 2, NumRecords: 200, WindowStart: hourStart, WindowEnd: hourEnd}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := seeded(t, tt.seed).Generate(context.Background(), tt.params)
			require.NoError(t, err)

			require.NoError(t, Validate(res.Records))
			require.NoError(t, ValidateWindow(res.Records, tt.params.WindowStart, tt.params.WindowEnd))

			for _, r := range res.Records {
				assert.GreaterOrEqual(t, r.EntityLow, 1)
				assert.LessOrEqual(t, r.EntityHigh, tt.params.NumEntities)
				assert.GreaterOrEqual(t, r.Duration(), time.Minute)
				assert.LessOrEqual(t, r.Duration(), 8*time.Hour)
			}

			s := res.Stats
			assert.Equal(t, int64(tt.params.NumRecords), s.Attempts)
			assert.Equal(t, s.Attempts, s.Accepted+s.Rejected+s.Infeasible)
			assert.Equal(t, int64(len(res.Records)), s.Accepted)
			if tt.denseOK {
				assert.Positive(t, s.Rejected, "a crowded window should reject overlapping draws")
			}
		})
	}
}

func TestGenerateTwoEntitiesOneRecord(t *testing.T) {
	res, err := seeded(t, 1).Generate(context.Background(), Params{
		NumEntities: 2,
		NumRecords:  1,
		WindowStart: hourStart,
		WindowEnd:   hourEnd,
	})
	require.NoError(t, err)
	require.LessOrEqual(t, len(res.Records), 1)
	for _, r := range res.Records {
		assert.Equal(t, 1, r.EntityLow)
		assert.Equal(t, 2, r.EntityHigh)
	}
}

func TestGenerateZeroRecords(t *testing.T) {
	res, err := seeded(t, 1).Generate(context.Background(), Params{
		NumEntities: 5,
		NumRecords:  0,
		WindowStart: hourStart,
		WindowEnd:   hourEnd,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Stats.Attempts)
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		target error
	}{
		{"one entity", Params{NumEntities: 1, NumRecords: 1, WindowStart: hourStart, WindowEnd: hourEnd}, ErrTooFewEntities},
		{"zero entities", Params{NumEntities: 0, NumRecords: 1, WindowStart: hourStart, WindowEnd: hourEnd}, ErrTooFewEntities},
		{"negative records", Params{NumEntities: 3, NumRecords: -1, WindowStart: hourStart, WindowEnd: hourEnd}, ErrInvalidRecordCount},
		{"window under a minute", Params{NumEntities: 3, NumRecords: 1, WindowStart: hourStart, WindowEnd: hourStart.Add(59 * time.Second)}, interval.ErrWindowTooSmall},
		{"reversed window", Params{NumEntities: 3, NumRecords: 1, WindowStart: hourEnd, WindowEnd: hourStart}, interval.ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRand{values: []int64{0}}
			g := newGenerator(t, rng, interval.Options{})

			_, err := g.Generate(context.Background(), tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParams)
			assert.ErrorIs(t, err, tt.target)
			assert.Zero(t, rng.calls, "validation must happen before any sampling")
		})
	}
}

func TestGenerateSurfacesRetryExhaustion(t *testing.T) {
	g := newGenerator(t, maxRand{}, interval.Options{MaxAttempts: 5})

	_, err := g.Generate(context.Background(), Params{
		NumEntities: 3,
		NumRecords:  1,
		WindowStart: hourStart,
		WindowEnd:   hourEnd,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, interval.ErrRetryExhausted)
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seeded(t, 1).Generate(ctx, Params{
		NumEntities: 3,
		NumRecords:  10,
		WindowStart: hourStart,
		WindowEnd:   hourEnd,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDrawPairCoversAllPairs(t *testing.T) {
	g := seeded(t, 5)
	seen := make(map[[2]int]int)
	for i := 0; i < 3000; i++ {
		low, high := g.drawPair(4)
		require.Less(t, low, high)
		require.GreaterOrEqual(t, low, 1)
		require.LessOrEqual(t, high, 4)
		seen[[2]int{low, high}]++
	}
	// C(4,2) = 6 pairs, each drawn roughly 500 times
	assert.Len(t, seen, 6)
	for pair, n := range seen {
		assert.Greater(t, n, 350, "pair %v drawn %d times", pair, n)
	}
}
