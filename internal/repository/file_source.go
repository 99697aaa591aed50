package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ForecastDash/internal/domain/models"
	domrepo "ForecastDash/internal/domain/repository"
	"ForecastDash/internal/services/normalize"
	"ForecastDash/pkg/cache"
	applogger "ForecastDash/pkg/logger"
)

// FileSource implements SeriesSource over a data directory plus in-process uploads.
type FileSource struct {
	dataDir string
	cache   cache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
	l       *applogger.Logger

	mu      sync.RWMutex
	uploads map[string][]byte
}

// NewFileSource creates a source rooted at dataDir. cache and metrics may be nil.
func NewFileSource(dataDir string, c cache.Service, ttl time.Duration, m domrepo.Metrics) *FileSource {
	return &FileSource{
		dataDir: dataDir,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		uploads: make(map[string][]byte),
	}
}

// SetLogger injects a structured logger.
func (s *FileSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *FileSource) Load(ctx context.Context, spec domrepo.SeriesSpec) (*models.TimeSeries, error) {
	content, err := s.read(spec)
	if err != nil {
		return nil, err
	}
	return s.normalize(ctx, spec, content)
}

// Upload normalizes content and, if it is valid, uses it instead of the file on disk.
func (s *FileSource) Upload(ctx context.Context, spec domrepo.SeriesSpec, content []byte) (*models.TimeSeries, error) {
	ts, err := s.normalize(ctx, spec, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.uploads[uploadKey(spec)] = content
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordUpload(spec.Dashboard, string(spec.Role))
	}
	if s.l != nil {
		s.l.Info("csv uploaded",
			applogger.String("dashboard", spec.Dashboard),
			applogger.String("role", string(spec.Role)),
			applogger.Int("rows", ts.Len()),
		)
	}
	return ts, nil
}

// Images returns the configured images that exist on disk, with resolved paths.
func (s *FileSource) Images(_ context.Context, images []models.Image) []models.Image {
	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		p := s.resolve(img.Path)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		img.Path = p
		out = append(out, img)
	}
	return out
}

func (s *FileSource) read(spec domrepo.SeriesSpec) ([]byte, error) {
	s.mu.RLock()
	content, ok := s.uploads[uploadKey(spec)]
	s.mu.RUnlock()
	if ok {
		return content, nil
	}

	content, err := os.ReadFile(s.resolve(spec.File))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domrepo.ErrMissingInput, spec.File)
		}
		return nil, fmt.Errorf("read %s: %w", spec.File, err)
	}
	return content, nil
}

func (s *FileSource) normalize(ctx context.Context, spec domrepo.SeriesSpec, content []byte) (*models.TimeSeries, error) {
	key := cache.GenerateKeyWithParams("series", spec.Role, spec.ValueColumn, cache.HashBytes(content))
	if s.cache != nil {
		ts, err := cache.GetTyped[models.TimeSeries](ctx, s.cache, key)
		if err == nil {
			s.recordCache(true)
			ts.Name = spec.File
			return ts, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) && s.l != nil {
			s.l.Warn("series cache get error", applogger.Error(err))
		}
		s.recordCache(false)
	}

	start := time.Now()
	opts := normalize.DefaultOptions(spec.Role)
	opts.Source = spec.File
	if spec.ValueColumn != "" {
		opts.ValueColumn = spec.ValueColumn
	}
	ts, err := normalize.NormalizeCSV(bytes.NewReader(content), opts)
	if s.metrics != nil {
		s.metrics.RecordLatency("normalize", time.Since(start).Seconds())
	}
	if err != nil {
		s.recordFailure(spec, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordNormalization(string(spec.Role), "ok")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, ts, s.ttl); err != nil && s.l != nil {
			s.l.Warn("series cache set error", applogger.Error(err))
		}
	}
	return ts, nil
}

func (s *FileSource) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCache(hit)
	}
}

func (s *FileSource) recordFailure(spec domrepo.SeriesSpec, err error) {
	var se *normalize.SchemaError
	kind := "unknown"
	if errors.As(err, &se) {
		kind = se.Kind()
	}
	if s.metrics != nil {
		s.metrics.RecordNormalization(string(spec.Role), "error")
		s.metrics.RecordSchemaError(kind)
	}
	if s.l != nil {
		s.l.Warn("csv normalization failed",
			applogger.String("file", spec.File),
			applogger.String("role", string(spec.Role)),
			applogger.String("kind", kind),
			applogger.Error(err),
		)
	}
}

func (s *FileSource) resolve(p string) string {
	if filepath.IsAbs(p) || s.dataDir == "" {
		return p
	}
	return filepath.Join(s.dataDir, p)
}

func uploadKey(spec domrepo.SeriesSpec) string {
	return spec.Dashboard + ":" + string(spec.Role)
}
