package di

import (
	"fmt"

	"StatPull/internal/domain/repository"
	"StatPull/internal/handler/api"
	"StatPull/internal/handler/ws"
	pricecache "StatPull/internal/service/cache"
	"StatPull/internal/service/ratelimit"
	"StatPull/internal/service/upstream"
	"StatPull/internal/service/window"
	"StatPull/internal/usecase"
	kv "StatPull/pkg/cache"
	"StatPull/pkg/config"
	xhttp "StatPull/pkg/http"
	"StatPull/pkg/logger"
	"StatPull/pkg/metrics"
	"StatPull/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or a no-op one when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Noop{}
	}
	return metrics.New(nil)
}

// ProvideCacheStore builds the backend behind the price cache.
func ProvideCacheStore(cfg *config.Config) (kv.Service, error) {
	c := cfg.Cache
	if c.Backend == "memory" {
		return kv.NewMemoryCache(kv.WithMemoryMaxSize(c.MemoryMaxSize)), nil
	}

	rc, err := kv.NewRedisCache(
		kv.WithRedisHost(c.Redis.Host),
		kv.WithRedisPort(c.Redis.Port),
		kv.WithRedisPassword(c.Redis.Password),
		kv.WithRedisDB(c.Redis.DB),
		kv.WithRedisPrefix(c.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	if c.Backend == "redis" {
		return rc, nil
	}

	return kv.NewLayeredCache(rc,
		kv.WithLayeredMemorySize(c.MemoryMaxSize),
		kv.WithLayeredMemoryTTL(cfg.Prices.Freshness),
	), nil
}

// ProvideUpstreamClient creates the evaluation service client.
func ProvideUpstreamClient(cfg *config.Config, m repository.Metrics) *upstream.Client {
	return upstream.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.Token,
		cfg.Upstream.Timeout,
		cfg.Upstream.NumberPaths,
		upstream.WithMetrics(m),
	)
}

func ProvideWindow(cfg *config.Config) *window.Accumulator {
	return window.New(cfg.Window.Capacity)
}

func ProvideHub(l *logger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvidePriceCache creates the read-through price cache.
func ProvidePriceCache(
	cfg *config.Config,
	store kv.Service,
	src repository.PriceSource,
	l *logger.Logger,
	m repository.Metrics,
) *pricecache.PriceCache {
	return pricecache.NewPriceCache(store, src, cfg.Prices.Freshness,
		pricecache.WithLogger(l),
		pricecache.WithMetrics(m),
	)
}

// ProvideNumbersUseCase creates the numbers use case, publishing to the hub.
func ProvideNumbersUseCase(
	cfg *config.Config,
	src repository.NumberSource,
	w *window.Accumulator,
	hub *ws.Hub,
	l *logger.Logger,
	m repository.Metrics,
) *usecase.NumbersUseCase {
	return usecase.NewNumbersUseCase(src, w, cfg.Upstream.NumberPaths,
		usecase.WithNotifier(hub),
		usecase.WithNumbersLogger(l),
		usecase.WithNumbersMetrics(m),
	)
}

func ProvideStocksUseCase(prices repository.PriceProvider, l *logger.Logger, m repository.Metrics) *usecase.StocksUseCase {
	return usecase.NewStocksUseCase(prices,
		usecase.WithStocksLogger(l),
		usecase.WithStocksMetrics(m),
	)
}

func ProvideNumbersHandler(l *logger.Logger, uc *usecase.NumbersUseCase) *api.NumbersEchoHandler {
	return api.NewNumbersEchoHandler(l, uc)
}

func ProvideStocksHandler(l *logger.Logger, uc *usecase.StocksUseCase) *api.StocksEchoHandler {
	return api.NewStocksEchoHandler(l, uc)
}

// ProvideLimiter returns nil when rate limiting is disabled.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

// ProvideHTTPServer builds the Echo server with every route handler.
func ProvideHTTPServer(
	cfg *config.Config,
	l *logger.Logger,
	numbers *api.NumbersEchoHandler,
	stocks *api.StocksEchoHandler,
	hub *ws.Hub,
	limiter *ratelimit.Limiter,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, cfg.Server.SlowThreshold))
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithRateLimiter(limiter))
	}
	return xhttp.NewServer([]xhttp.Handler{numbers, stocks, hub}, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	hub *ws.Hub,
	store kv.Service,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, srv, hub, store, limiter)
}
