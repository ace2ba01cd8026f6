package scheduler

import (
	"context"
	"fmt"
	"time"

	"ChartDesk/internal/logger"
	"ChartDesk/internal/model"
	"ChartDesk/internal/report"
	"ChartDesk/internal/strategy"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// warmupConcurrency bounds parallel fetches during a watchlist warm-up.
const warmupConcurrency = 4

// Warmer loads the daily history of a symbol into the cache.
type Warmer interface {
	Daily(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error)
}

// Scanner evaluates the strategy rules for a request.
type Scanner interface {
	Strategies(ctx context.Context, req model.ViewRequest) (strategy.Result, error)
}

// Scheduler runs the watchlist cron jobs.
type Scheduler struct {
	Cron      *cron.Cron
	Warmer    Warmer
	Scanner   Scanner
	Watchlist []string
	Period    model.Period
	Frequency model.Frequency
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. scanner may be nil.
func NewScheduler(ctx context.Context, w Warmer, scanner Scanner, watchlist []string, period model.Period, freq model.Frequency) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Warmer:    w,
		Scanner:   scanner,
		Watchlist: watchlist,
		Period:    period,
		Frequency: freq,
		Ctx:       ctx,
	}
}

// RegisterAll registers the warm-up job and, when scanCron is set, the
// strategy scan.
func (s *Scheduler) RegisterAll(warmupCron, scanCron string) error {
	if _, err := s.Cron.AddFunc(warmupCron, func() { s.RunWarmupNow() }); err != nil {
		return fmt.Errorf("register warmup task: %w", err)
	}
	if scanCron == "" || s.Scanner == nil {
		return nil
	}
	if _, err := s.Cron.AddFunc(scanCron, func() { s.RunScanNow() }); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started", logger.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunWarmupNow fetches every watchlist symbol, a few at a time, and returns the
// number that failed.
func (s *Scheduler) RunWarmupNow() int {
	start := time.Now()
	var g errgroup.Group
	g.SetLimit(warmupConcurrency)

	failed := make([]bool, len(s.Watchlist))
	for i, symbol := range s.Watchlist {
		g.Go(func() error {
			bars, err := s.Warmer.Daily(s.Ctx, symbol, s.Period)
			if err != nil {
				failed[i] = true
				logger.Warn("warmup failed", logger.Symbol(symbol), logger.ErrorField(err))
				return nil
			}
			logger.Debug("warmed", logger.Symbol(symbol), logger.Bars(len(bars)))
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	logger.Info("warmup finished",
		logger.Int("symbols", len(s.Watchlist)),
		logger.Int("failed", n),
		logger.Duration(time.Since(start)),
	)
	return n
}

// RunScanNow evaluates the strategies for every watchlist symbol and returns
// the active evaluations keyed by symbol.
func (s *Scheduler) RunScanNow() map[string][]strategy.Evaluation {
	active := make(map[string][]strategy.Evaluation)
	for _, symbol := range s.Watchlist {
		req, err := model.NewViewRequest(symbol, string(s.Period), string(s.Frequency), time.Time{}, time.Time{}, nil)
		if err != nil {
			logger.Warn("scan skipped", logger.Symbol(symbol), logger.ErrorField(err))
			continue
		}
		res, err := s.Scanner.Strategies(s.Ctx, req)
		if err != nil {
			logger.Warn("scan failed", logger.Symbol(symbol), logger.ErrorField(err))
			continue
		}
		evals := res.Ordered()
		for _, ev := range evals {
			if ev.Active {
				active[symbol] = append(active[symbol], ev)
				logger.Info("strategy active",
					logger.Symbol(symbol),
					logger.String("strategy", ev.ID),
					logger.String("message", ev.Message),
				)
			}
		}
		logger.Debug("scan result\n"+report.FormatStrategies(symbol, evals), logger.Symbol(symbol))
	}
	return active
}
