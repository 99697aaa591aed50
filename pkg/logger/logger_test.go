package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel).With(String("component", "test"))

	l.Info("loaded",
		String("file", "a.csv"),
		Int("rows", 3),
		Float64("mean", 1.5),
		Bool("cached", true),
		Duration("took_ms", 20*time.Millisecond),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "loaded", got["message"])
	assert.Equal(t, "test", got["component"])
	assert.Equal(t, "a.csv", got["file"])
	assert.Equal(t, 3.0, got["rows"])
	assert.Equal(t, 1.5, got["mean"])
	assert.Equal(t, true, got["cached"])
	assert.Equal(t, 20.0, got["took_ms"])
	assert.Equal(t, "boom", got["error"])
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.WarnLevel)

	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "discard"})
	assert.Error(t, err)
}
