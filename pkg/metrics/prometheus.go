package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	normalizations *prometheus.CounterVec
	schemaErrors   *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	uploads        *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		normalizations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastdash_normalizations_total",
				Help: "Total number of CSV normalizations by role and result",
			},
			[]string{"role", "result"},
		),
		schemaErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastdash_schema_errors_total",
				Help: "Total number of schema errors by kind",
			},
			[]string{"kind"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastdash_cache_lookups_total",
				Help: "Normalized-series cache lookups by result",
			},
			[]string{"result"},
		),
		uploads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastdash_uploads_total",
				Help: "Uploaded CSV files by dashboard and role",
			},
			[]string{"dashboard", "role"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecastdash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordNormalization records a normalization outcome ("ok" or "error").
func (r *Recorder) RecordNormalization(role, result string) {
	r.normalizations.WithLabelValues(role, result).Inc()
}

// RecordSchemaError records a schema error by kind.
func (r *Recorder) RecordSchemaError(kind string) {
	r.schemaErrors.WithLabelValues(kind).Inc()
}

// RecordCache records a cache hit or miss.
func (r *Recorder) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordUpload records an uploaded file.
func (r *Recorder) RecordUpload(dashboard, role string) {
	r.uploads.WithLabelValues(dashboard, role).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
