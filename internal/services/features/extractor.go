package features

import (
	"ForecastDash/internal/domain/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RollingMean returns a centered moving average of width window.
// A window that overruns either end, or contains a missing value, yields a missing point.
func RollingMean(points []models.Point, window int) []models.Point {
	out := make([]models.Point, len(points))
	if window <= 0 {
		window = 1
	}
	// even windows lean one step to the right of center
	right := window / 2
	left := window - 1 - right
	for i := range points {
		out[i] = models.Point{Year: points[i].Year}
		if i-left < 0 || i+right >= len(points) {
			continue
		}
		sum, ok := 0.0, true
		for j := i - left; j <= i+right; j++ {
			if points[j].Value == nil {
				ok = false
				break
			}
			sum += *points[j].Value
		}
		if ok {
			out[i].Value = models.Float(sum / float64(window))
		}
	}
	return out
}

// YoYChange returns the percent change from the previous point.
func YoYChange(points []models.Point) []models.Point {
	out := make([]models.Point, len(points))
	for i, p := range points {
		out[i] = models.Point{Year: p.Year}
		if i == 0 || p.Value == nil {
			continue
		}
		prev := points[i-1].Value
		if prev == nil || *prev == 0 {
			continue
		}
		out[i].Value = models.Float((*p.Value - *prev) / *prev * 100)
	}
	return out
}

// Summarize computes descriptive statistics of history and the forecast horizon.
func Summarize(history, forecast *models.TimeSeries) models.Summary {
	var s models.Summary
	if first, ok := history.MinYear(); ok {
		s.FirstYear = first
	}
	if last, ok := history.MaxYear(); ok {
		s.LastYear = last
	}

	valid := history.Valid()
	xs := make([]float64, len(valid))
	for i, p := range valid {
		xs[i] = *p.Value
	}
	s.Count = len(xs)
	if len(xs) > 0 {
		s.Mean = stat.Mean(xs, nil)
		s.Min = floats.Min(xs)
		s.Max = floats.Max(xs)
		s.Last = valid[len(valid)-1].Value
	}
	if len(xs) > 1 {
		s.Std = stat.StdDev(xs, nil)
	}

	s.ForecastYears = forecast.Len()
	if fv := forecast.Valid(); len(fv) > 0 {
		s.ForecastLast = fv[len(fv)-1].Value
	}
	return s
}
