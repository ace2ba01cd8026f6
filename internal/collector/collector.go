package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"ChartDesk/internal/bars"
	"ChartDesk/internal/cache"
	"ChartDesk/internal/logger"
	"ChartDesk/internal/metrics"
	"ChartDesk/internal/model"
	"ChartDesk/internal/store"
)

// Collector serves daily bar histories: from the short-lived cache when fresh,
// otherwise from the fetcher (one upstream call per symbol and period however
// many requests wait on it), and from the bar store when the fetcher fails.
type Collector struct {
	Fetcher Fetcher
	Cache   cache.BarCache
	Store   store.BarStore
	TTL     time.Duration

	group singleflight.Group
	now   func() time.Time
}

// NewCollector creates a new Collector. Nil cache and store disable those layers.
func NewCollector(fetcher Fetcher, c cache.BarCache, s store.BarStore, ttl time.Duration) *Collector {
	if c == nil {
		c = cache.Nop{}
	}
	if s == nil {
		s = store.NewNoopStore()
	}
	return &Collector{Fetcher: fetcher, Cache: c, Store: s, TTL: ttl, now: time.Now}
}

// Daily returns the normalized daily history of symbol over period.
func (c *Collector) Daily(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	key := symbol + "@" + string(period)
	log := logger.WithContext(ctx).With(logger.Symbol(symbol), logger.String("period", string(period)))

	cached, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		log.Warn("bar cache read failed", logger.ErrorField(err))
	}
	if ok {
		metrics.CacheHit()
		return cached, nil
	}
	metrics.CacheMiss()

	// The shared fetch outlives any single caller; each caller stops waiting
	// when its own ctx ends.
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), symbol, period)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug("joined in-flight fetch")
		}
		return append([]model.Bar(nil), res.Val.([]model.Bar)...), nil
	}
}

func (c *Collector) fetch(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	key := symbol + "@" + string(period)
	log := logger.WithContext(ctx).With(logger.Symbol(symbol), logger.Source(c.Fetcher.Name()))
	start := time.Now()

	raw, err := c.Fetcher.FetchDaily(ctx, symbol, period)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(c.Fetcher.Name()).Inc()
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		if stored, serr := c.offline(ctx, symbol, period); serr == nil && len(stored) > 0 {
			log.Warn("fetch failed, serving stored bars", logger.ErrorField(err), logger.Bars(len(stored)))
			return stored, nil
		}
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), err)
	}

	normalized, dropped := bars.Normalize(raw)
	if dropped > 0 {
		log.Warn("dropped malformed bars", logger.Int("dropped", dropped))
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, model.ErrNotFound)
	}
	log.Info("fetched bars", logger.Bars(len(normalized)), logger.Duration(time.Since(start)))

	if err := c.Cache.Set(ctx, key, normalized, c.TTL); err != nil {
		log.Warn("bar cache write failed", logger.ErrorField(err))
	}
	if err := c.Store.SaveBars(ctx, symbol, c.Fetcher.Name(), normalized); err != nil {
		log.Warn("bar store write failed", logger.ErrorField(err))
	}
	return normalized, nil
}

func (c *Collector) offline(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	var since time.Time
	if days := period.Days(); days > 0 {
		since = c.now().AddDate(0, 0, -days)
	}
	stored, err := c.Store.LoadBars(ctx, symbol, since)
	if err != nil {
		return nil, err
	}
	normalized, _ := bars.Normalize(stored)
	return normalized, nil
}
