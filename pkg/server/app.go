package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StatPull/internal/service/ratelimit"
	kv "StatPull/pkg/cache"
	"StatPull/pkg/config"
	xhttp "StatPull/pkg/http"
	applogger "StatPull/pkg/logger"
)

const (
	sweepInterval = time.Minute
	limiterIdle   = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	hub        io.Closer
	store      kv.Service
	limiter    *ratelimit.Limiter
}

// New creates a new App instance with all dependencies.
// limiter may be nil when rate limiting is disabled.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	hub io.Closer,
	store kv.Service,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		cfg:        cfg,
		log:        l,
		httpServer: httpServer,
		hub:        hub,
		store:      store,
		limiter:    limiter,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("statpull started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("upstream", a.cfg.Upstream.BaseURL),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
		applogger.Int("window_capacity", a.cfg.Window.Capacity),
	)

	if a.limiter != nil {
		go a.sweepLimiter(ctx)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) sweepLimiter(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(limiterIdle); n > 0 {
				a.log.Debug("rate limiter swept", applogger.Int("removed", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	// Subscribers go first; hijacked connections are not drained by Shutdown.
	if a.hub != nil {
		if err := a.hub.Close(); err != nil {
			a.log.Warn("websocket hub close error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
