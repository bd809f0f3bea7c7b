package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spccli/internal/dataset"
	apperrors "spccli/internal/errors"
)

// recordsFromRates builds records whose defect rates equal the given values
func recordsFromRates(shift dataset.Shift, rates ...float64) []dataset.DefectRecord {
	records := make([]dataset.DefectRecord, len(rates))
	for i, r := range rates {
		records[i] = dataset.DefectRecord{
			Shift:         shift,
			UnitsProduced: 10000,
			DefectCount:   int(math.Round(r * 10000)),
		}
	}
	return records
}

func TestSummarizeKnownValues(t *testing.T) {
	// Rates 0.02, 0.04, 0.06: mean 0.04, sample variance 0.0004, sd 0.02
	records := recordsFromRates(dataset.ShiftDay, 0.02, 0.04, 0.06)

	summary, err := NewEngine(0.95, nil).Summarize("overall", records)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.N)
	assert.InDelta(t, 0.04, summary.Mean, 1e-12)
	assert.InDelta(t, 0.02, summary.StdDev, 1e-12)

	// t(0.975, 2) = 4.302653
	margin := 4.302652729911275 * 0.02 / math.Sqrt(3)
	assert.InDelta(t, 0.04-margin, summary.CILower, 1e-6)
	assert.InDelta(t, 0.04+margin, summary.CIUpper, 1e-6)
}

func TestSummarizeCISymmetry(t *testing.T) {
	records := recordsFromRates(dataset.ShiftDay, 0.01, 0.03, 0.02, 0.08, 0.05)

	summary, err := NewEngine(0.95, nil).Summarize("overall", records)
	require.NoError(t, err)

	// Symmetric around the mean up to floating-point rounding
	assert.InDelta(t, summary.Mean-summary.CILower, summary.CIUpper-summary.Mean, 1e-15)
}

func TestSummarizeOrderIndependence(t *testing.T) {
	rates := []float64{0.01, 0.07, 0.03, 0.05, 0.02, 0.04, 0.06}
	engine := NewEngine(0.95, nil)

	base, err := engine.Summarize("overall", recordsFromRates(dataset.ShiftDay, rates...))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]float64(nil), rates...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := engine.Summarize("overall", recordsFromRates(dataset.ShiftDay, shuffled...))
		require.NoError(t, err)
		assert.InDelta(t, base.Mean, got.Mean, 1e-12)
		assert.InDelta(t, base.StdDev, got.StdDev, 1e-12)
		assert.InDelta(t, base.CILower, got.CILower, 1e-12)
		assert.InDelta(t, base.CIUpper, got.CIUpper, 1e-12)
	}
}

func TestSummarizeDeterminism(t *testing.T) {
	records := recordsFromRates(dataset.ShiftNight, 0.02, 0.05, 0.03, 0.04)
	engine := NewEngine(0.95, nil)

	first, err := engine.Summarize("overall", records)
	require.NoError(t, err)
	second, err := engine.Summarize("overall", records)
	require.NoError(t, err)

	// Pure function: identical inputs reproduce identical bounds
	assert.Equal(t, first, second)
}

func TestSummarizeInsufficientData(t *testing.T) {
	engine := NewEngine(0.95, nil)

	_, err := engine.Summarize("Day shift", recordsFromRates(dataset.ShiftDay, 0.05))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInsufficientData))
	assert.Contains(t, err.Error(), "Day shift")
}

func TestSummarizeSkipsExcludedRecords(t *testing.T) {
	records := recordsFromRates(dataset.ShiftDay, 0.05, 0.05)
	records = append(records, dataset.DefectRecord{Shift: dataset.ShiftDay, UnitsProduced: 0})

	summary, err := NewEngine(0.95, nil).Summarize("overall", records)
	require.NoError(t, err)

	// The zero-production record does not enter n or the mean
	assert.Equal(t, 2, summary.N)
	assert.InDelta(t, 0.05, summary.Mean, 1e-12)
}

func TestControlLimitsOrdering(t *testing.T) {
	records := recordsFromRates(dataset.ShiftDay, 0.02, 0.08, 0.04, 0.05, 0.03)

	limits, err := NewEngine(0.95, nil).ControlLimits(records)
	require.NoError(t, err)

	assert.LessOrEqual(t, limits.LCL, limits.Centerline)
	assert.LessOrEqual(t, limits.Centerline, limits.UCL)
}

func TestControlLimitsIdenticalRates(t *testing.T) {
	records := recordsFromRates(dataset.ShiftDay, 0.05, 0.05, 0.05, 0.05)

	limits, err := NewEngine(0.95, nil).ControlLimits(records)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, limits.Sigma, 1e-12)
	assert.InDelta(t, limits.Centerline, limits.UCL, 1e-12)
	assert.InDelta(t, limits.Centerline, limits.LCL, 1e-12)
}

func TestControlLimitsLowerFloorsAtZero(t *testing.T) {
	// Small mean with large spread pushes mean-3sigma below zero
	records := recordsFromRates(dataset.ShiftDay, 0.001, 0.02, 0.001, 0.03)

	limits, err := NewEngine(0.95, nil).ControlLimits(records)
	require.NoError(t, err)

	assert.Equal(t, 0.0, limits.LCL)
	assert.Greater(t, limits.UCL, limits.Centerline)
}

func TestControlLimitsOutside(t *testing.T) {
	limits := ControlLimits{Centerline: 0.05, UCL: 0.09, LCL: 0.01}

	assert.False(t, limits.Outside(0.05))
	assert.False(t, limits.Outside(0.09))
	assert.True(t, limits.Outside(0.095))
	assert.True(t, limits.Outside(0.005))
}
