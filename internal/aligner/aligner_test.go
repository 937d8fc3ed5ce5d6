package aligner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/vibewatch/pkg/models"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func record(t *testing.T, id string, axis models.Axis, start, end string, values, freqs []float64) models.MeasurementRecord {
	t.Helper()
	return models.MeasurementRecord{
		ID:          id,
		Start:       ts(t, start),
		End:         ts(t, end),
		Coordinate:  axis,
		Values:      values,
		Frequencies: freqs,
	}
}

func f(v float64) *float64 { return &v }

func TestGroupByAxis(t *testing.T) {
	records := []models.MeasurementRecord{
		record(t, "x-mid", models.AxisX, "2024-01-02T00:00:00Z", "2024-01-03T00:00:00Z", []float64{1}, []float64{10}),
		record(t, "x-early", models.AxisX, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1}, []float64{10}),
		record(t, "y-only", models.AxisY, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1}, []float64{10}),
		record(t, "x-late", models.AxisX, "2024-01-03T00:00:00Z", "2024-01-05T00:00:00Z", []float64{1}, []float64{10}),
	}

	groups := GroupByAxis(records)

	require.Len(t, groups, 2)
	assert.Contains(t, groups, models.AxisX)
	assert.Contains(t, groups, models.AxisY)
	assert.NotContains(t, groups, models.AxisZ)

	assert.Equal(t, "x-early", groups[models.AxisX].Healthy.ID)
	assert.Equal(t, "x-late", groups[models.AxisX].Current.ID)

	// a single record is both healthy and current
	assert.Same(t, groups[models.AxisY].Healthy, groups[models.AxisY].Current)
	assert.Same(t, &records[2], groups[models.AxisY].Healthy)
}

func TestGroupByAxis_Extremes(t *testing.T) {
	records := []models.MeasurementRecord{
		record(t, "a", models.AxisZ, "2024-03-01T00:00:00Z", "2024-03-09T00:00:00Z", nil, nil),
		record(t, "b", models.AxisZ, "2024-02-01T00:00:00Z", "2024-03-02T00:00:00Z", nil, nil),
		record(t, "c", models.AxisZ, "2024-04-01T00:00:00Z", "2024-04-02T00:00:00Z", nil, nil),
		record(t, "d", models.AxisZ, "2024-02-15T00:00:00Z", "2024-03-20T00:00:00Z", nil, nil),
	}

	g := GroupByAxis(records)[models.AxisZ]

	for _, r := range records {
		assert.False(t, r.Start.Before(g.Healthy.Start), "healthy start must be minimal, %s starts earlier", r.ID)
		assert.False(t, r.End.After(g.Current.End), "current end must be maximal, %s ends later", r.ID)
	}
	assert.Equal(t, "b", g.Healthy.ID)
	assert.Equal(t, "c", g.Current.ID)
}

func TestGroupByAxis_TiesKeepFirst(t *testing.T) {
	records := []models.MeasurementRecord{
		record(t, "first", models.AxisMagnitude, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", nil, nil),
		record(t, "second", models.AxisMagnitude, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", nil, nil),
	}

	g := GroupByAxis(records)[models.AxisMagnitude]

	assert.Equal(t, "first", g.Healthy.ID)
	assert.Equal(t, "first", g.Current.ID)
}

func TestGroupByAxis_Empty(t *testing.T) {
	assert.Empty(t, GroupByAxis(nil))
}

func TestCombine_BothAbsent(t *testing.T) {
	for _, mode := range []Mode{ByFrequency, ByIndex, ByTime} {
		t.Run(string(mode), func(t *testing.T) {
			points := Combine(nil, nil, mode)
			assert.NotNil(t, points)
			assert.Empty(t, points)
		})
	}
}

func TestCombine_HealthyOnly(t *testing.T) {
	h := record(t, "h", models.AxisX, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1, 2, 3}, []float64{10, 20, 30})

	for _, mode := range []Mode{ByFrequency, ByIndex, ByTime} {
		t.Run(string(mode), func(t *testing.T) {
			points := Combine(&h, nil, mode)
			require.Len(t, points, 3)
			for i, p := range points {
				require.NotNil(t, p.HealthyValue)
				assert.Equal(t, h.Values[i], *p.HealthyValue)
				assert.Nil(t, p.CurrentValue)
			}
		})
	}
}

func TestCombine_Scenario(t *testing.T) {
	records := []models.MeasurementRecord{
		record(t, "1", models.AxisX, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1, 2}, []float64{10, 20}),
		record(t, "2", models.AxisX, "2024-01-03T00:00:00Z", "2024-01-05T00:00:00Z", []float64{3, 4}, []float64{10, 20}),
	}

	g := GroupByAxis(records)[models.AxisX]
	require.Equal(t, "1", g.Healthy.ID)
	require.Equal(t, "2", g.Current.ID)

	want := []models.AlignedPoint{
		{Frequency: 10, HealthyValue: f(1), CurrentValue: f(3)},
		{Frequency: 20, HealthyValue: f(2), CurrentValue: f(4)},
	}
	assert.Equal(t, want, Combine(g.Healthy, g.Current, ByFrequency))
	assert.Equal(t, want, Combine(g.Healthy, g.Current, ByIndex))
}

func TestCombine_ByFrequencySortedMerge(t *testing.T) {
	h := record(t, "h", models.AxisY, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{5, 1, 3}, []float64{50, 10, 30})
	c := record(t, "c", models.AxisY, "2024-01-03T00:00:00Z", "2024-01-04T00:00:00Z", []float64{2, 4, 6}, []float64{20, 30, 60})

	points := Combine(&h, &c, ByFrequency)

	want := []models.AlignedPoint{
		{Frequency: 10, HealthyValue: f(1)},
		{Frequency: 20, CurrentValue: f(2)},
		{Frequency: 30, HealthyValue: f(3), CurrentValue: f(4)},
		{Frequency: 50, HealthyValue: f(5)},
		{Frequency: 60, CurrentValue: f(6)},
	}
	assert.Equal(t, want, points)
}

func TestCombine_ByFrequencySharedGridHasNoDuplicates(t *testing.T) {
	grid := []float64{5, 10, 15, 20}
	h := record(t, "h", models.AxisZ, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1, 1, 1, 1}, grid)
	c := record(t, "c", models.AxisZ, "2024-01-03T00:00:00Z", "2024-01-04T00:00:00Z", []float64{2, 2, 2, 2}, grid)

	points := Combine(&h, &c, ByFrequency)

	require.Len(t, points, len(grid))
	seen := map[float64]bool{}
	for i, p := range points {
		assert.False(t, seen[p.Frequency], "duplicate key %v", p.Frequency)
		seen[p.Frequency] = true
		if i > 0 {
			assert.Less(t, points[i-1].Frequency, p.Frequency)
		}
	}
}

func TestCombine_ByIndexDifferentLengths(t *testing.T) {
	h := record(t, "h", models.AxisX, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1, 2}, []float64{10, 20})
	c := record(t, "c", models.AxisX, "2024-01-03T00:00:00Z", "2024-01-04T00:00:00Z", []float64{3, 4, 5}, []float64{11, 21, 31})

	points := Combine(&h, &c, ByIndex)

	want := []models.AlignedPoint{
		{Frequency: 10, HealthyValue: f(1), CurrentValue: f(3)},
		{Frequency: 20, HealthyValue: f(2), CurrentValue: f(4)},
		{Frequency: 31, CurrentValue: f(5)},
	}
	assert.Equal(t, want, points)
}

func TestCombine_ByIndexKeysFromWhicheverSideHasBins(t *testing.T) {
	bare := record(t, "bare", models.AxisX, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{1, 2, 3}, nil)
	binned := record(t, "binned", models.AxisX, "2024-01-03T00:00:00Z", "2024-01-04T00:00:00Z", []float64{4, 5}, []float64{100, 200})

	points := Combine(&bare, &binned, ByIndex)

	want := []models.AlignedPoint{
		{Frequency: 100, HealthyValue: f(1), CurrentValue: f(4)},
		{Frequency: 200, HealthyValue: f(2), CurrentValue: f(5)},
		{Frequency: 2, HealthyValue: f(3)},
	}
	assert.Equal(t, want, points)
}

func TestCombine_ByTime(t *testing.T) {
	h := record(t, "h", models.AxisX, "2024-01-01T00:00:00Z", "2024-01-01T00:00:04Z", []float64{1, 2, 3, 4}, nil)
	c := record(t, "c", models.AxisX, "2024-01-02T00:00:00Z", "2024-01-02T00:00:02Z", []float64{5, 6}, nil)

	points := Combine(&h, &c, ByTime)

	want := []models.AlignedPoint{
		{Frequency: 0, HealthyValue: f(1), CurrentValue: f(5)},
		{Frequency: 1, HealthyValue: f(2), CurrentValue: f(6)},
		{Frequency: 2, HealthyValue: f(3)},
		{Frequency: 3, HealthyValue: f(4)},
	}
	assert.Equal(t, want, points)
}

func TestCombine_Deterministic(t *testing.T) {
	h := record(t, "h", models.AxisY, "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", []float64{4, 3, 2, 1}, []float64{40, 30, 20, 10})
	c := record(t, "c", models.AxisY, "2024-01-03T00:00:00Z", "2024-01-04T00:00:00Z", []float64{1, 2}, []float64{25, 15})

	first := Combine(&h, &c, ByFrequency)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Combine(&h, &c, ByFrequency))
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ByFrequency},
		{in: "frequency", want: ByFrequency},
		{in: "index", want: ByIndex},
		{in: "time", want: ByTime},
		{in: "fft", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	points := []models.AlignedPoint{
		{Frequency: 10, HealthyValue: f(3), CurrentValue: f(6)},
		{Frequency: 20, HealthyValue: f(4), CurrentValue: f(8)},
		{Frequency: 30, CurrentValue: f(1)},
	}

	s := Summarize(points)

	require.NotNil(t, s.HealthyRMS)
	assert.InDelta(t, 3.5355, *s.HealthyRMS, 1e-4)
	require.NotNil(t, s.CurrentRMS)
	assert.InDelta(t, 5.8023, *s.CurrentRMS, 1e-4)
	require.NotNil(t, s.RMSRatio)
	assert.InDelta(t, 5.8023/3.5355, *s.RMSRatio, 1e-3)
	assert.Equal(t, 20.0, *s.HealthyPeakKey)
	assert.Equal(t, 4.0, *s.HealthyPeak)
	assert.Equal(t, 20.0, *s.CurrentPeakKey)
	assert.Equal(t, 8.0, *s.CurrentPeak)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.AxisSummary{}, Summarize(nil))
}
