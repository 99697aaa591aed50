package models

// MergedRow is one year of the outer join of history and forecast.
type MergedRow struct {
	Year     int      `json:"year"`
	History  *float64 `json:"history"`
	Forecast *float64 `json:"forecast"`
	Set      string   `json:"set"`
}

// MergedView holds merged rows sorted by year.
type MergedView struct {
	MaxHistoryYear int         `json:"max_history_year"`
	Rows           []MergedRow `json:"rows"`
}

// Summary describes the history series and the forecast horizon.
type Summary struct {
	Count         int      `json:"count"`
	FirstYear     int      `json:"first_year"`
	LastYear      int      `json:"last_year"`
	Mean          float64  `json:"mean"`
	Std           float64  `json:"std"`
	Min           float64  `json:"min"`
	Max           float64  `json:"max"`
	Last          *float64 `json:"last"`
	ForecastYears int      `json:"forecast_years"`
	ForecastLast  *float64 `json:"forecast_last"`
}

// Image is a pre-rendered chart found on disk.
type Image struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Title string `json:"title"`
}
