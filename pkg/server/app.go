package server

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ForecastDash/pkg/config"
	xhttp "ForecastDash/pkg/http"
	applogger "ForecastDash/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, h xhttp.Handler, r *xhttp.TemplateRenderer) *App {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithBodyLimit(bodyLimit(cfg.Server.MaxUploadBytes)),
		xhttp.WithRenderer(r),
		xhttp.WithLogger(l),
	)
	return &App{cfg: cfg, l: l, httpServer: srv}
}

// Server returns the HTTP server.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("dashboards ready",
		applogger.Int("dashboards", len(a.cfg.Dashboards)),
		applogger.String("data_dir", a.cfg.DataDir),
	)

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}

// bodyLimit leaves headroom over the upload cap for multipart framing.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		return ""
	}
	kb := maxUpload/1024 + 64
	return strconv.FormatInt(kb, 10) + "K"
}
