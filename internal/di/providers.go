package di

import (
	"fmt"

	"ForecastDash/internal/domain/repository"
	"ForecastDash/internal/handler/api"
	internalrepo "ForecastDash/internal/repository"
	"ForecastDash/internal/service/ratelimit"
	"ForecastDash/internal/usecase"
	"ForecastDash/pkg/cache"
	"ForecastDash/pkg/config"
	xhttp "ForecastDash/pkg/http"
	applogger "ForecastDash/pkg/logger"
	"ForecastDash/pkg/metrics"
	"ForecastDash/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the normalized-series cache: Redis behind an in-memory layer when
// enabled, otherwise memory only.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		mem := cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
		)
		return mem, func() { _ = mem.Close() }, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache enabled", applogger.String("addr", cfg.Cache.Redis.Addr))

	layered := cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
	)
	cleanup := func() {
		if err := layered.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
	return layered, cleanup, nil
}

// ProvideSeriesSource creates the file-backed series source.
func ProvideSeriesSource(cfg *config.Config, c cache.Service, m repository.Metrics, l *applogger.Logger) repository.SeriesSource {
	src := internalrepo.NewFileSource(cfg.DataDir, c, cfg.Cache.TTL, m)
	src.SetLogger(l)
	return src
}

// ProvideDashboardUseCase creates the dashboard use case.
func ProvideDashboardUseCase(cfg *config.Config, src repository.SeriesSource, m repository.Metrics, l *applogger.Logger) *usecase.DashboardUseCase {
	uc := usecase.NewDashboardUseCase(cfg, src, m)
	uc.SetLogger(l)
	return uc
}

// ProvideUploadLimiter creates the per-client upload rate limiter.
func ProvideUploadLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(float64(cfg.Server.UploadBurst), cfg.Server.UploadRate)
}

// ProvideHTTPHandler creates the dashboard HTTP handler.
func ProvideHTTPHandler(cfg *config.Config, l *applogger.Logger, uc *usecase.DashboardUseCase, limiter *ratelimit.Limiter) xhttp.Handler {
	return api.NewDashboardEchoHandler(l, uc, limiter, cfg.Server.MaxUploadBytes)
}

// ProvideRenderer parses the page templates.
func ProvideRenderer() (*xhttp.TemplateRenderer, error) {
	return api.NewRenderer()
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, h xhttp.Handler, r *xhttp.TemplateRenderer) *server.App {
	return server.New(cfg, l, h, r)
}
