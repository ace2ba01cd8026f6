package collector

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ChartDesk/internal/cache"
	"ChartDesk/internal/model"
	"ChartDesk/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var end = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func TestMockFetcher_GeneratesWeekdays(t *testing.T) {
	m := &MockFetcher{Price: 50, End: end}
	bars, err := m.FetchDaily(context.Background(), "X", model.Recent2Y)
	require.NoError(t, err)
	assert.Greater(t, len(bars), 500)
	assert.Equal(t, end, bars[len(bars)-1].Time)
	for _, b := range bars {
		assert.NotEqual(t, time.Saturday, b.Time.Weekday())
		assert.LessOrEqual(t, b.Low, b.High)
	}
}

func TestCollector_CachesFetches(t *testing.T) {
	m := &MockFetcher{Price: 100, End: end}
	c := NewCollector(m, cache.NewTTLCache(), nil, time.Minute)
	ctx := context.Background()

	first, err := c.Daily(ctx, "AAPL", model.Recent2Y)
	require.NoError(t, err)
	second, err := c.Daily(ctx, "AAPL", model.Recent2Y)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), m.Calls())

	_, err = c.Daily(ctx, "AAPL", model.Recent5Y)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.Calls(), "period is part of the key")
}

func TestCollector_SingleFlight(t *testing.T) {
	m := &MockFetcher{Price: 100, End: end, Delay: 200 * time.Millisecond}
	c := NewCollector(m, nil, nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Daily(context.Background(), "MSFT", model.Recent2Y)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), m.Calls())
}

func TestCollector_CancelledCallerDoesNotFailOthers(t *testing.T) {
	m := &MockFetcher{Price: 100, End: end, Delay: 200 * time.Millisecond}
	c := NewCollector(m, cache.NewTTLCache(), nil, time.Minute)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Daily(first, "AAPL", model.Recent2Y)
		firstErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	type result struct {
		bars []model.Bar
		err  error
	}
	second := make(chan result, 1)
	go func() {
		bars, err := c.Daily(context.Background(), "AAPL", model.Recent2Y)
		second <- result{bars, err}
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	res := <-second
	require.NoError(t, res.err)
	assert.NotEmpty(t, res.bars)
	assert.Equal(t, int64(1), m.Calls())

	// the detached fetch still populated the cache
	_, err := c.Daily(context.Background(), "AAPL", model.Recent2Y)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Calls())
}

func TestCollector_NormalizesAndRejectsEmpty(t *testing.T) {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{Bars: []model.Bar{
		{Time: t0.AddDate(0, 0, 1), Open: 2, High: 3, Low: 1, Close: 2, Volume: 1},
		{Time: t0, Open: 1, High: 2, Low: 0.5, Close: 1, Volume: 1},
		{Time: t0.AddDate(0, 0, 2), Open: 1, High: 0, Low: 2, Close: 1, Volume: 1},
	}}
	c := NewCollector(m, nil, nil, 0)
	bars, err := c.Daily(context.Background(), "X", model.Recent2Y)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, t0, bars[0].Time)

	m.Bars = []model.Bar{{Time: t0, High: 0, Low: 1}}
	c = NewCollector(m, nil, nil, 0)
	_, err = c.Daily(context.Background(), "X", model.Recent2Y)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCollector_OfflineFallback(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	defer s.Close()

	online := &MockFetcher{Price: 100, End: time.Now()}
	_, err = NewCollector(online, nil, s, 0).Daily(ctx, "AAPL", model.Recent2Y)
	require.NoError(t, err)

	offline := &MockFetcher{Err: errors.New("connection refused")}
	bars, err := NewCollector(offline, nil, s, 0).Daily(ctx, "AAPL", model.Recent2Y)
	require.NoError(t, err)
	assert.NotEmpty(t, bars)

	_, err = NewCollector(offline, nil, s, 0).Daily(ctx, "MSFT", model.Recent2Y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCollector_NotFoundSkipsFallback(t *testing.T) {
	m := &MockFetcher{Err: model.ErrNotFound}
	_, err := NewCollector(m, nil, nil, 0).Daily(context.Background(), "NOPE", model.Recent2Y)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
