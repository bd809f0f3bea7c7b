package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShift(t *testing.T) {
	tests := []struct {
		raw     string
		want    Shift
		wantErr bool
	}{
		{raw: "Day", want: ShiftDay},
		{raw: "NIGHT", want: ShiftNight},
		{raw: "  day ", want: ShiftDay},
		{raw: "night", want: ShiftNight},
		{raw: "Swing", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseShift(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefectRateBounds(t *testing.T) {
	records := []DefectRecord{
		{UnitsProduced: 100, DefectCount: 0},
		{UnitsProduced: 100, DefectCount: 7},
		{UnitsProduced: 50, DefectCount: 50},
		{UnitsProduced: 1, DefectCount: 1},
	}

	for _, r := range records {
		rate, ok := r.DefectRate()
		require.True(t, ok)
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 1.0)
	}
}

func TestDefectRateExcluded(t *testing.T) {
	r := DefectRecord{UnitsProduced: 0, DefectCount: 0}

	assert.True(t, r.Excluded())
	_, ok := r.DefectRate()
	assert.False(t, ok)
}

func TestDatasetPartitions(t *testing.T) {
	records := []DefectRecord{
		{Shift: ShiftDay, UnitsProduced: 100, DefectCount: 5},
		{Shift: ShiftNight, UnitsProduced: 200, DefectCount: 20},
		{Shift: ShiftDay, UnitsProduced: 0, DefectCount: 0},
		{Shift: ShiftNight, UnitsProduced: 150, DefectCount: 3},
	}
	ds := NewDataset(records)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 1, ds.ExcludedCount())
	assert.Len(t, ds.Included(), 3)
	assert.Len(t, ds.ByShift(ShiftDay), 1)
	assert.Len(t, ds.ByShift(ShiftNight), 2)
}

func TestDatasetImmutability(t *testing.T) {
	records := []DefectRecord{
		{Shift: ShiftDay, UnitsProduced: 100, DefectCount: 5},
	}
	ds := NewDataset(records)

	// Mutating the input slice or an accessor result must not leak in
	records[0].DefectCount = 99
	got := ds.Records()
	assert.Equal(t, 5, got[0].DefectCount)

	got[0].DefectCount = 42
	assert.Equal(t, 5, ds.Records()[0].DefectCount)
}

func TestRates(t *testing.T) {
	records := []DefectRecord{
		{UnitsProduced: 100, DefectCount: 5},
		{UnitsProduced: 0, DefectCount: 0},
		{UnitsProduced: 200, DefectCount: 10},
	}

	rates := Rates(records)
	require.Len(t, rates, 2)
	assert.InDelta(t, 0.05, rates[0], 1e-12)
	assert.InDelta(t, 0.05, rates[1], 1e-12)
}

func TestRecordLabel(t *testing.T) {
	r := DefectRecord{
		Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Shift: ShiftNight,
	}
	assert.Equal(t, "2024-03-01 (Night)", r.Label())
}
