package di

import (
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/service/aktools"
	svcmetrics "MarketLens/internal/service/metrics"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/services/breadth"
	"MarketLens/internal/services/window"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger builds the root logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder and registers the
// pipeline collectors.
func ProvideMetrics() *metrics.Recorder {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideMemoryCache creates the in-process table cache.
func ProvideMemoryCache(cfg *config.Config, rec *metrics.Recorder) *cache.MemoryCache[models.Table] {
	return cache.NewMemoryCache[models.Table](
		cache.WithMemoryName("tables"),
		cache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
		cache.WithRecorder(rec),
	)
}

// ProvideRedisCache connects to Redis when enabled; otherwise it returns nil.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	rc := cfg.Cache.Redis
	if !rc.Enabled {
		return nil, nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisAddr(rc.Addr),
		cache.WithRedisPassword(rc.Password),
		cache.WithRedisDB(rc.DB),
		cache.WithRedisPrefix(rc.Prefix),
		cache.WithRedisPool(rc.PoolSize, 2, 30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideTableStore layers Redis under the memory cache when it is available.
func ProvideTableStore(
	cfg *config.Config,
	mem *cache.MemoryCache[models.Table],
	rc *cache.RedisCache,
	l *applogger.Logger,
) cache.Store[models.Table] {
	if rc == nil {
		return mem
	}
	log := l.Component("cache")
	return cache.NewLayeredCache(mem, rc,
		cache.WithL2Timeout(cfg.Cache.Redis.Timeout),
		cache.WithL2ErrorHandler(func(op string, err error) {
			log.Warn("redis layer degraded", applogger.String("op", op), applogger.Error(err))
		}),
	)
}

// ProvideMemo memoizes provider tables for the configured TTL. A shared fetch
// outlives its first caller, so it is bounded by twice the upstream timeout.
func ProvideMemo(cfg *config.Config, store cache.Store[models.Table]) *cache.Memo[models.Table] {
	return cache.NewMemo(store,
		cache.WithMemoTTL(cfg.Cache.TTL),
		cache.WithFetchTimeout(2*cfg.Upstream.Timeout),
	)
}

// ProvideAkTools creates the upstream market-data client.
func ProvideAkTools(cfg *config.Config, rec *metrics.Recorder, l *applogger.Logger) *aktools.Client {
	return aktools.New(cfg.Upstream.BaseURL,
		aktools.WithHTTPClient(xhttp.NewClient(
			xhttp.WithTimeout(cfg.Upstream.Timeout),
			xhttp.WithUserAgent("marketlens"),
		)),
		aktools.WithRateLimit(cfg.Upstream.RPS, cfg.Upstream.Burst),
		aktools.WithMetrics(rec),
		aktools.WithLogger(l.Component("aktools")),
	)
}

// ProvideMarketData puts the memo in front of the upstream client.
func ProvideMarketData(client *aktools.Client, memo *cache.Memo[models.Table]) domrepo.MarketData {
	return internalrepo.NewMarketRepository(client, memo)
}

func ProvideClock() domrepo.Clock {
	return usecase.SystemClock{}
}

func ProvideValuation(data domrepo.MarketData, cfg *config.Config, l *applogger.Logger) *usecase.ValuationUseCase {
	v := cfg.Pipelines.Valuation
	return usecase.NewValuationUseCase(data, usecase.ValuationConfig{
		IndexSymbol: v.IndexSymbol,
		PESymbol:    v.PESymbol,
	}, l)
}

func ProvideSectorFlow(data domrepo.MarketData, cfg *config.Config, l *applogger.Logger) *usecase.SectorFlowUseCase {
	s := cfg.Pipelines.SectorFlow
	return usecase.NewSectorFlowUseCase(data, usecase.SectorFlowConfig{
		TopK:         s.TopK,
		RealtimeTopK: s.RealtimeTopK,
	}, l)
}

func ProvideMarketFlow(data domrepo.MarketData, cfg *config.Config, l *applogger.Logger) *usecase.MarketFlowUseCase {
	return usecase.NewMarketFlowUseCase(data, cfg.Pipelines.MarketFlow.Days, l)
}

// ProvideDiscreteness pairs every configured window with its fluctuation limit.
// Config validation guarantees both lists have the same length.
func ProvideDiscreteness(
	data domrepo.MarketData,
	clock domrepo.Clock,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.DiscretenessUseCase {
	d := cfg.Pipelines.Discreteness
	windows := make([]window.Config, len(d.Windows))
	for i, size := range d.Windows {
		windows[i] = window.Config{Size: size, MaxFluctuation: d.Limits[i]}
	}
	return usecase.NewDiscretenessUseCase(data, clock, usecase.DiscretenessConfig{
		HistoryDays: d.HistoryDays,
		Windows:     windows,
		Keep:        d.Keep,
	}, l)
}

func ProvideBreadth(data domrepo.MarketData, cfg *config.Config, l *applogger.Logger) *usecase.BreadthUseCase {
	s := cfg.Pipelines.Screener
	return usecase.NewBreadthUseCase(data, usecase.BreadthConfig{
		Criteria: breadth.Criteria{
			MaxAbsChangePct:   s.MaxAbsChangePct,
			MinVolume:         s.MinVolume,
			MinTurnoverRate:   s.MinTurnoverRate,
			Max60DayChangePct: s.Max60DayChangePct,
		},
		Movers: cfg.Pipelines.Statistic.Movers,
	}, l)
}

func ProvideStock(data domrepo.MarketData, l *applogger.Logger) *usecase.StockUseCase {
	return usecase.NewStockUseCase(data, l)
}

// ProvideHandler registers every analytics route.
func ProvideHandler(
	l *applogger.Logger,
	v *usecase.ValuationUseCase,
	sf *usecase.SectorFlowUseCase,
	mf *usecase.MarketFlowUseCase,
	d *usecase.DiscretenessUseCase,
	b *usecase.BreadthUseCase,
	s *usecase.StockUseCase,
) xhttp.Handler {
	return api.NewMarketEchoHandler(l, v, sf, mf, d, b, s)
}

// ProvideLimiter returns the inbound per-client limiter, or nil when disabled.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	rl := cfg.Server.RateLimit
	if !rl.Enabled {
		return nil
	}
	return ratelimit.New(rl.RPS, rl.Burst)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	h xhttp.Handler,
	mem *cache.MemoryCache[models.Table],
	lim *ratelimit.Limiter,
	rc *cache.RedisCache,
) *server.App {
	var pruner server.Pruner
	if lim != nil {
		pruner = lim
	}
	var closers []server.Closer
	if rc != nil {
		closers = append(closers, rc)
	}
	return server.New(cfg, l, h, mem, pruner, closers...)
}
