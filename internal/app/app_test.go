package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ChartDesk/internal/cache"
	"ChartDesk/internal/calculator"
	"ChartDesk/internal/collector"
	"ChartDesk/internal/config"
	"ChartDesk/internal/model"
	"ChartDesk/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.DataSource.Provider = "mock"
	cfg.Cache.Backend = "memory"
	cfg.Cache.TTL = time.Minute
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "bars.db")
	cfg.Indicators = calculator.DefaultConfig()
	return cfg
}

func TestNew_Mock(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "mock", a.Fetcher.Name())
	assert.IsType(t, &cache.TTLCache{}, a.Cache)
	assert.IsType(t, &store.SQLiteStore{}, a.Store)

	req, err := model.NewViewRequest("demo", "2y", "weekly", time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	res, err := a.Pipeline.Render(context.Background(), req)
	require.NoError(t, err)
	assert.Greater(t, res.Bars, 100)

	rec, err := a.Store.LastFetch(context.Background(), "DEMO")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "mock", rec.Source)
}

func TestNew_RedisFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Database.SQLitePath = ""

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.TTLCache{}, a.Cache)
	assert.IsType(t, &store.NoopStore{}, a.Store)
	assert.NoError(t, a.Close())
}

func TestNewFetcher(t *testing.T) {
	cfg := testConfig(t)
	for provider, name := range map[string]string{"yahoo": "yahoo", "binance": "binance", "mock": "mock"} {
		cfg.DataSource.Provider = provider
		f, err := NewFetcher(cfg)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	cfg.DataSource.Provider = "rest"
	_, err := NewFetcher(cfg)
	assert.Error(t, err)
	cfg.DataSource.BaseURL = "http://localhost:5000"
	f, err := NewFetcher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &collector.RESTFetcher{}, f)

	cfg.DataSource.Provider = "bloomberg"
	_, err = NewFetcher(cfg)
	assert.Error(t, err)

	cfg.Cache.Backend = "none"
	a := &App{Config: cfg}
	assert.Equal(t, cache.Nop{}, a.newCache(context.Background()))
}
