//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Caching
		ProvideMemoryCache,
		ProvideRedisCache,
		ProvideTableStore,
		ProvideMemo,

		// Market data
		ProvideAkTools,
		ProvideMarketData,
		ProvideClock,

		// Use cases
		ProvideValuation,
		ProvideSectorFlow,
		ProvideMarketFlow,
		ProvideDiscreteness,
		ProvideBreadth,
		ProvideStock,

		// HTTP
		ProvideHandler,
		ProvideLimiter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
