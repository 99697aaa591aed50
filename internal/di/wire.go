//go:build wireinject
// +build wireinject

package di

import (
	"ForecastDash/pkg/config"
	"ForecastDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Repositories
		ProvideSeriesSource,

		// Use cases
		ProvideDashboardUseCase,

		// Transport
		ProvideUploadLimiter,
		ProvideHTTPHandler,
		ProvideRenderer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
