package repository

import (
	"context"
	"errors"

	"ForecastDash/internal/domain/models"
)

var (
	// ErrMissingInput is returned when a configured CSV is neither on disk nor uploaded.
	ErrMissingInput = errors.New("input file not found")
	// ErrUnknownDashboard is returned for a dashboard name that is not configured.
	ErrUnknownDashboard = errors.New("unknown dashboard")
)

// SeriesSpec identifies one CSV input of a dashboard.
type SeriesSpec struct {
	Dashboard   string
	Role        models.Role
	File        string
	ValueColumn string
}

// SeriesSource loads normalized series for dashboards.
type SeriesSource interface {
	Load(ctx context.Context, spec SeriesSpec) (*models.TimeSeries, error)
	Upload(ctx context.Context, spec SeriesSpec, content []byte) (*models.TimeSeries, error)
	Images(ctx context.Context, images []models.Image) []models.Image
}

// Metrics records dashboard activity.
type Metrics interface {
	RecordNormalization(role, result string)
	RecordSchemaError(kind string)
	RecordCache(hit bool)
	RecordUpload(dashboard, role string)
	RecordLatency(op string, seconds float64)
}
