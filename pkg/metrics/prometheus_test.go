package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordNormalization("history", "ok")
	r.RecordNormalization("history", "ok")
	r.RecordSchemaError("no_year")
	r.RecordCache(true)
	r.RecordCache(false)
	r.RecordUpload("inflation", "forecast")
	r.RecordLatency("load", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.normalizations.WithLabelValues("history", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.schemaErrors.WithLabelValues("no_year")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues("inflation", "forecast")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
