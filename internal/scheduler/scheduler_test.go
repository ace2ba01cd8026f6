package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ChartDesk/internal/model"
	"ChartDesk/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWarmer struct {
	mu      sync.Mutex
	seen    []string
	running atomic.Int32
	peak    atomic.Int32
}

func (w *stubWarmer) Daily(_ context.Context, symbol string, _ model.Period) ([]model.Bar, error) {
	n := w.running.Add(1)
	defer w.running.Add(-1)
	for {
		p := w.peak.Load()
		if n <= p || w.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)

	w.mu.Lock()
	w.seen = append(w.seen, symbol)
	w.mu.Unlock()
	if symbol == "BAD" {
		return nil, model.ErrNotFound
	}
	return []model.Bar{{Close: 1}}, nil
}

type stubScanner struct{}

func (stubScanner) Strategies(_ context.Context, req model.ViewRequest) (strategy.Result, error) {
	if req.Symbol == "BAD" {
		return nil, errors.New("upstream down")
	}
	return strategy.Result{
		strategy.IDBreakout:    {ID: strategy.IDBreakout, Active: req.Symbol == "AAPL", Message: "breakout"},
		strategy.IDGoldenCross: {ID: strategy.IDGoldenCross},
	}, nil
}

func TestRunWarmupNow(t *testing.T) {
	w := &stubWarmer{}
	watchlist := []string{"AAPL", "MSFT", "BAD", "TSLA", "NVDA", "AMZN", "META", "GOOG"}
	s := NewScheduler(context.Background(), w, nil, watchlist, model.Recent2Y, model.Daily)

	assert.Equal(t, 1, s.RunWarmupNow())
	assert.ElementsMatch(t, watchlist, w.seen)
	assert.LessOrEqual(t, w.peak.Load(), int32(warmupConcurrency))
}

func TestRunScanNow(t *testing.T) {
	s := NewScheduler(context.Background(), &stubWarmer{}, stubScanner{},
		[]string{"AAPL", "MSFT", "BAD", ""}, model.Recent2Y, model.Daily)

	active := s.RunScanNow()
	require.Len(t, active, 1)
	require.Len(t, active["AAPL"], 1)
	assert.Equal(t, strategy.IDBreakout, active["AAPL"][0].ID)
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &stubWarmer{}, stubScanner{}, nil, model.Recent2Y, model.Daily)
	require.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 0 23 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 2)

	s = NewScheduler(context.Background(), &stubWarmer{}, nil, nil, model.Recent2Y, model.Daily)
	require.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 0 23 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("every day", ""))
	s.Scanner = stubScanner{}
	assert.Error(t, s.RegisterAll("0 30 22 * * 1-5", "bogus"))
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(context.Background(), &stubWarmer{}, nil, nil, model.Recent2Y, model.Daily)
	require.NoError(t, s.RegisterAll("@every 1h", ""))
	s.Start()
	s.Stop()
}
