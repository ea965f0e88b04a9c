package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/http/middleware"
	applogger "MarketLens/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Sweeper reclaims expired cache entries.
type Sweeper interface {
	SweepExpired() int
	Len() int
}

// Pruner forgets idle per-client rate limiters.
type Pruner interface {
	middleware.KeyedLimiter
	Prune(maxIdle time.Duration) int
}

// Closer is an optional infrastructure client closed on shutdown.
type Closer interface {
	Close() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	cache       Sweeper
	limiter     Pruner
	closers     []Closer
	cron        *cron.Cron
}

// New creates a new App instance with all dependencies.
// limiter may be nil when inbound rate limiting is disabled.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	cache Sweeper,
	limiter Pruner,
	closers ...Closer,
) *App {
	return &App{
		cfg:         cfg,
		logger:      l.Component("app"),
		httpHandler: handler,
		cache:       cache,
		limiter:     limiter,
		closers:     closers,
		cron:        cron.New(),
	}
}

// Start registers background jobs and starts the HTTP server.
func (a *App) Start() error {
	if _, err := a.cron.AddFunc(a.cfg.Cache.SweepSpec, a.sweep); err != nil {
		return fmt.Errorf("schedule cache sweep %q: %w", a.cfg.Cache.SweepSpec, err)
	}
	a.cron.Start()
	a.logger.Info("maintenance scheduled", applogger.String("schedule", a.cfg.Cache.SweepSpec))

	a.httpServer = xhttp.NewServer(a.httpHandler, a.logger, a.serverOptions()...)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	return nil
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	a.logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
	return a.Shutdown(context.Background())
}

// Shutdown stops background jobs, drains HTTP and closes clients.
func (a *App) Shutdown(ctx context.Context) error {
	<-a.cron.Stop().Done()

	var firstErr error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
			firstErr = err
		}
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}

func (a *App) serverOptions() []xhttp.ServerOption {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithHealth(a.health),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	} else {
		opts = append(opts, xhttp.WithMetricsPath(""))
	}
	if a.limiter != nil {
		opts = append(opts, xhttp.WithRateLimiter(a.limiter))
	}
	return opts
}

func (a *App) health() xhttp.HealthResponse {
	return xhttp.HealthResponse{Status: "ok", Cache: a.cache.Len()}
}

// sweep runs on the maintenance schedule.
func (a *App) sweep() {
	expired := a.cache.SweepExpired()
	pruned := 0
	if a.limiter != nil {
		pruned = a.limiter.Prune(limiterIdle)
	}
	a.logger.Debug("maintenance sweep",
		applogger.Int("expired", expired),
		applogger.Int("limiters_pruned", pruned),
		applogger.Int("cache_entries", a.cache.Len()),
	)
}

const limiterIdle = 10 * time.Minute
