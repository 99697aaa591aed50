package features

import (
	"math"
	"testing"

	"ForecastDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(start int, vals ...float64) []models.Point {
	out := make([]models.Point, len(vals))
	for i, v := range vals {
		out[i] = models.Point{Year: start + i}
		if !math.IsNaN(v) {
			out[i].Value = models.Float(v)
		}
	}
	return out
}

func TestRollingMeanCentered(t *testing.T) {
	got := RollingMean(series(2000, 1, 2, 3, 4, 5), 3)
	require.Len(t, got, 5)

	assert.Nil(t, got[0].Value)
	assert.Nil(t, got[4].Value)
	assert.InDelta(t, 2, *got[1].Value, 1e-9)
	assert.InDelta(t, 3, *got[2].Value, 1e-9)
	assert.InDelta(t, 4, *got[3].Value, 1e-9)
	assert.Equal(t, 2003, got[3].Year)
}

func TestRollingMeanMissingPoisonsWindow(t *testing.T) {
	got := RollingMean(series(2000, 1, math.NaN(), 3, 4, 5), 3)

	assert.Nil(t, got[1].Value)
	assert.Nil(t, got[2].Value)
	require.NotNil(t, got[3].Value)
	assert.InDelta(t, 4, *got[3].Value, 1e-9)
}

func TestRollingMeanShortSeries(t *testing.T) {
	got := RollingMean(series(2000, 1, 2), 3)
	for _, p := range got {
		assert.Nil(t, p.Value)
	}
}

func TestYoYChange(t *testing.T) {
	got := YoYChange(series(2000, 100, 110, 0, 5))

	assert.Nil(t, got[0].Value)
	assert.InDelta(t, 10, *got[1].Value, 1e-9)
	assert.InDelta(t, -100, *got[2].Value, 1e-9)
	assert.Nil(t, got[3].Value)
}

func TestSummarize(t *testing.T) {
	h := &models.TimeSeries{Points: series(2018, 1, 2, math.NaN(), 3)}
	f := &models.TimeSeries{Points: series(2022, 2.5, 2.7)}

	s := Summarize(h, f)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2018, s.FirstYear)
	assert.Equal(t, 2021, s.LastYear)
	assert.InDelta(t, 2, s.Mean, 1e-9)
	assert.InDelta(t, 1, s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	require.NotNil(t, s.Last)
	assert.Equal(t, 3.0, *s.Last)
	assert.Equal(t, 2, s.ForecastYears)
	require.NotNil(t, s.ForecastLast)
	assert.Equal(t, 2.7, *s.ForecastLast)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Zero(t, s.Count)
	assert.Nil(t, s.Last)
	assert.Nil(t, s.ForecastLast)
}
