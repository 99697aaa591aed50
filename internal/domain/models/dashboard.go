package models

// DashboardMeta is the configured identity of a dashboard.
type DashboardMeta struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Model          string `json:"model,omitempty"`
	HistoryFile    string `json:"history_file"`
	ForecastFile   string `json:"forecast_file"`
	HistoryColumn  string `json:"history_column"`
	ForecastColumn string `json:"forecast_column"`
	ChartTitle     string `json:"chart_title"`
	YLabel         string `json:"y_label"`
}

// DashboardView is everything one dashboard page shows.
type DashboardView struct {
	Meta            DashboardMeta `json:"meta"`
	Caption         string        `json:"caption"`
	History         *TimeSeries   `json:"history"`
	Forecast        *TimeSeries   `json:"forecast"`
	Merged          *MergedView   `json:"merged"`
	Proxy           []Point       `json:"proxy,omitempty"`
	YoY             []Point       `json:"yoy"`
	Summary         Summary       `json:"summary"`
	RecentHistory   []Point       `json:"recent_history"`
	ForecastPreview []Point       `json:"forecast_preview"`
	Images          []Image       `json:"images"`
}
