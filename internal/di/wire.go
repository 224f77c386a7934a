//go:build wireinject
// +build wireinject

package di

import (
	"StatPull/internal/domain/repository"
	pricecache "StatPull/internal/service/cache"
	"StatPull/internal/service/upstream"
	"StatPull/pkg/config"
	"StatPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCacheStore,
		ProvideUpstreamClient,
		wire.Bind(new(repository.NumberSource), new(*upstream.Client)),
		wire.Bind(new(repository.PriceSource), new(*upstream.Client)),

		// Domain services
		ProvideWindow,
		ProvideHub,
		ProvidePriceCache,
		wire.Bind(new(repository.PriceProvider), new(*pricecache.PriceCache)),

		// Use cases
		ProvideNumbersUseCase,
		ProvideStocksUseCase,

		// HTTP
		ProvideNumbersHandler,
		ProvideStocksHandler,
		ProvideLimiter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
