package app

import (
	"context"
	"fmt"
	"time"

	"ChartDesk/internal/cache"
	"ChartDesk/internal/collector"
	"ChartDesk/internal/config"
	"ChartDesk/internal/logger"
	"ChartDesk/internal/pipeline"
	"ChartDesk/internal/store"
)

// App holds the wired components shared by the binaries.
type App struct {
	Config    *config.Config
	Fetcher   collector.Fetcher
	Cache     cache.BarCache
	Store     store.BarStore
	Collector *collector.Collector
	Pipeline  *pipeline.Service

	closers []func() error
}

// New wires fetcher, cache, store, collector and pipeline from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	f, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}
	a.Fetcher = f
	logger.Info("data source", logger.Source(f.Name()))

	a.Cache = a.newCache(ctx)
	a.Store = a.newStore()
	a.Collector = collector.NewCollector(a.Fetcher, a.Cache, a.Store, cfg.Cache.TTL)
	a.Pipeline = pipeline.NewService(a.Collector, cfg.Indicators)
	return a, nil
}

// NewFetcher selects the data provider named in cfg.
func NewFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "", "yahoo":
		return collector.NewYahooFetcher(ds.Proxy, ds.Timeout), nil
	case "binance":
		return collector.NewBinanceFetcher(ds.BaseURL), nil
	case "rest":
		if ds.BaseURL == "" {
			return nil, fmt.Errorf("data_source.base_url is required for the rest provider")
		}
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, ds.Proxy, ds.Timeout), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

func (a *App) newCache(ctx context.Context) cache.BarCache {
	switch a.Config.Cache.Backend {
	case "none":
		return cache.Nop{}
	case "redis":
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, using in-memory cache", logger.ErrorField(err))
			_ = rc.Close()
			return cache.NewTTLCache()
		}
		a.closers = append(a.closers, rc.Close)
		return rc
	default:
		return cache.NewTTLCache()
	}
}

func (a *App) newStore() store.BarStore {
	if a.Config.Database.SQLitePath == "" {
		return store.NewNoopStore()
	}
	s, err := store.NewSQLiteStore(a.Config.Database.SQLitePath)
	if err != nil {
		logger.Warn("init sqlite store failed, using noop", logger.ErrorField(err))
		return store.NewNoopStore()
	}
	a.closers = append(a.closers, s.Close)
	return s
}

// Close releases the cache and store connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
