package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"ForecastDash/internal/domain/models"
	domrepo "ForecastDash/internal/domain/repository"
	"ForecastDash/internal/services/chart"
	"ForecastDash/internal/services/export"
	"ForecastDash/internal/services/features"
	"ForecastDash/pkg/config"
	applogger "ForecastDash/pkg/logger"
)

const (
	proxyWindow    = 3
	previewRows    = 5
	minProxyPoints = 3
)

var (
	ErrUnsupportedExport = errors.New("unsupported export")
	ErrImageNotFound     = errors.New("image not found")
)

// DashboardUseCase assembles dashboard views from configured CSV inputs.
type DashboardUseCase struct {
	cfg     *config.Config
	source  domrepo.SeriesSource
	metrics domrepo.Metrics
	l       *applogger.Logger
}

// NewDashboardUseCase creates the use case. metrics may be nil.
func NewDashboardUseCase(cfg *config.Config, source domrepo.SeriesSource, m domrepo.Metrics) *DashboardUseCase {
	return &DashboardUseCase{cfg: cfg, source: source, metrics: m}
}

// SetLogger injects a structured logger.
func (uc *DashboardUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// List returns the configured dashboards in config order.
func (uc *DashboardUseCase) List() []models.DashboardMeta {
	out := make([]models.DashboardMeta, 0, len(uc.cfg.Dashboards))
	for _, d := range uc.cfg.Dashboards {
		out = append(out, meta(d))
	}
	return out
}

// Meta returns the configuration of one dashboard.
func (uc *DashboardUseCase) Meta(name string) (models.DashboardMeta, error) {
	d, err := uc.dashboard(name)
	if err != nil {
		return models.DashboardMeta{}, err
	}
	return meta(d), nil
}

// Load reads, normalizes and merges both inputs of a dashboard.
func (uc *DashboardUseCase) Load(ctx context.Context, name string) (*models.DashboardView, error) {
	start := time.Now()
	defer uc.observe("load", start)

	d, err := uc.dashboard(name)
	if err != nil {
		return nil, err
	}

	history, err := uc.source.Load(ctx, historySpec(d))
	if err != nil {
		return nil, err
	}
	forecast, err := uc.source.Load(ctx, forecastSpec(d))
	if err != nil {
		return nil, err
	}

	merged, err := Merge(history, forecast)
	if err != nil {
		return nil, err
	}

	view := &models.DashboardView{
		Meta:            meta(d),
		Caption:         caption(d, history),
		History:         history,
		Forecast:        forecast,
		Merged:          merged,
		YoY:             features.YoYChange(history.Points),
		Summary:         features.Summarize(history, forecast),
		RecentHistory:   tail(history.Valid(), previewRows),
		ForecastPreview: forecast.Head(previewRows),
		Images:          uc.source.Images(ctx, images(d)),
	}
	if history.Len() >= minProxyPoints {
		view.Proxy = features.RollingMean(history.Points, proxyWindow)
	}
	return view, nil
}

// Upload replaces one input of a dashboard with content for the life of the process.
func (uc *DashboardUseCase) Upload(ctx context.Context, name string, role models.Role, content []byte) (*models.TimeSeries, error) {
	d, err := uc.dashboard(name)
	if err != nil {
		return nil, err
	}
	spec := historySpec(d)
	if role == models.RoleForecast {
		spec = forecastSpec(d)
	}
	return uc.source.Upload(ctx, spec, content)
}

// RenderChart writes the overview PNG of a dashboard to w.
func (uc *DashboardUseCase) RenderChart(ctx context.Context, name string, w io.Writer) error {
	view, err := uc.Load(ctx, name)
	if err != nil {
		return err
	}

	start := time.Now()
	defer uc.observe("render", start)

	opts := chart.DefaultOptions()
	opts.Title = view.Meta.ChartTitle
	opts.YLabel = view.Meta.YLabel
	return chart.RenderOverview(w, chart.Input{
		History:  view.History.Points,
		Proxy:    view.Proxy,
		Forecast: view.Forecast.Points,
	}, opts)
}

// Export writes a download and returns its file name.
func (uc *DashboardUseCase) Export(ctx context.Context, name, role string, format export.Format, w io.Writer) (string, error) {
	view, err := uc.Load(ctx, name)
	if err != nil {
		return "", err
	}

	switch {
	case role == string(models.RoleHistory) && format == export.FormatCSV:
		return "history_clean.csv", export.WriteSeriesCSV(w, view.History)
	case role == string(models.RoleForecast) && format == export.FormatCSV:
		return "forecast_clean.csv", export.WriteSeriesCSV(w, view.Forecast)
	case role == "merged" && format == export.FormatCSV:
		return "merged.csv", export.WriteMergedCSV(w, view.Merged, view.Meta.HistoryColumn, view.Meta.ForecastColumn)
	case role == "merged" && format == export.FormatXLSX:
		return "merged.xlsx", export.WriteMergedXLSX(w, view.Merged, view.Meta.HistoryColumn, view.Meta.ForecastColumn)
	}
	return "", fmt.Errorf("%w: %s as %s", ErrUnsupportedExport, role, format)
}

// Image returns the configured image at index if it exists on disk.
func (uc *DashboardUseCase) Image(ctx context.Context, name string, index int) (models.Image, error) {
	d, err := uc.dashboard(name)
	if err != nil {
		return models.Image{}, err
	}
	for _, img := range uc.source.Images(ctx, images(d)) {
		if img.Index == index {
			return img, nil
		}
	}
	return models.Image{}, fmt.Errorf("%w: %s #%d", ErrImageNotFound, name, index)
}

func (uc *DashboardUseCase) dashboard(name string) (config.Dashboard, error) {
	d, ok := uc.cfg.Dashboard(name)
	if !ok {
		return config.Dashboard{}, fmt.Errorf("%w: %s", domrepo.ErrUnknownDashboard, name)
	}
	return d, nil
}

func (uc *DashboardUseCase) observe(op string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Debug("dashboard op", applogger.String("op", op), applogger.Duration("took", time.Since(start)))
	}
}

func meta(d config.Dashboard) models.DashboardMeta {
	return models.DashboardMeta{
		Name:           d.Name,
		Title:          d.Title,
		Model:          d.Model,
		HistoryFile:    d.HistoryFile,
		ForecastFile:   d.ForecastFile,
		HistoryColumn:  d.HistoryColumn,
		ForecastColumn: d.ForecastColumn,
		ChartTitle:     d.ChartTitle,
		YLabel:         d.YLabel,
	}
}

func historySpec(d config.Dashboard) domrepo.SeriesSpec {
	return domrepo.SeriesSpec{
		Dashboard:   d.Name,
		Role:        models.RoleHistory,
		File:        d.HistoryFile,
		ValueColumn: d.HistoryColumn,
	}
}

func forecastSpec(d config.Dashboard) domrepo.SeriesSpec {
	return domrepo.SeriesSpec{
		Dashboard:   d.Name,
		Role:        models.RoleForecast,
		File:        d.ForecastFile,
		ValueColumn: d.ForecastColumn,
	}
}

func images(d config.Dashboard) []models.Image {
	out := make([]models.Image, len(d.Images))
	for i, img := range d.Images {
		out[i] = models.Image{Index: i, Path: img.Path, Title: img.Title}
	}
	return out
}

func caption(d config.Dashboard, history *models.TimeSeries) string {
	lo, _ := history.MinYear()
	hi, _ := history.MaxYear()
	model := ""
	if d.Model != "" {
		model = d.Model + " "
	}
	return fmt.Sprintf("History %d–%d with %sforecast following years in %s", lo, hi, model, filepath.Base(d.ForecastFile))
}

func tail(points []models.Point, n int) []models.Point {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
