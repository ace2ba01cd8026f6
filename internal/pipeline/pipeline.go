package pipeline

import (
	"context"
	"fmt"
	"time"

	"ChartDesk/internal/bars"
	"ChartDesk/internal/calculator"
	"ChartDesk/internal/chart"
	"ChartDesk/internal/logger"
	"ChartDesk/internal/metrics"
	"ChartDesk/internal/model"
	"ChartDesk/internal/strategy"
)

// BarSource supplies the daily history a view is computed from.
type BarSource interface {
	Daily(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error)
}

// Service turns a ViewRequest into chart panes. It keeps no state between
// calls: every interaction is a full recomputation from the fetched history.
type Service struct {
	Source     BarSource
	Indicators calculator.Config
}

// NewService creates a Service.
func NewService(src BarSource, cfg calculator.Config) *Service {
	return &Service{Source: src, Indicators: cfg}
}

// Result is everything the dashboard draws for one request.
type Result struct {
	Request    model.ViewRequest     `json:"request"`
	Panes      []chart.Pane          `json:"panes"`
	Strategies []strategy.Evaluation `json:"strategies"`
	Range      chart.Range           `json:"range"`
	Legend     chart.LegendSnapshot  `json:"legend"`
	Warnings   []string              `json:"warnings,omitempty"`
	Bars       int                   `json:"bars"`

	// Unclipped data for renderers that draw the whole history and zoom in.
	Timeline  chart.Timeline       `json:"-"`
	FullPanes []chart.Pane         `json:"-"`
	Enriched  *calculator.Enriched `json:"-"`
}

// Enrich fetches the history of req, resamples it to the requested frequency and
// computes every indicator over the whole of it.
func (s *Service) Enrich(ctx context.Context, req model.ViewRequest) (*calculator.Enriched, error) {
	start := time.Now()
	daily, err := s.Source.Daily(ctx, req.Symbol, req.Period)
	metrics.ObserveStage("fetch", start)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	resampled, err := bars.Aggregate(daily, req.Frequency)
	metrics.ObserveStage("aggregate", start)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", req.Symbol, err)
	}

	start = time.Now()
	e := calculator.Compute(resampled, s.Indicators)
	metrics.ObserveStage("compute", start)
	return e, nil
}

// Strategies evaluates the preset rules on the latest bar of req's series.
func (s *Service) Strategies(ctx context.Context, req model.ViewRequest) (strategy.Result, error) {
	e, err := s.Enrich(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.detect(e), nil
}

func (s *Service) detect(e *calculator.Enriched) strategy.Result {
	start := time.Now()
	res := strategy.Detect(e)
	metrics.ObserveStage("detect", start)
	for _, ev := range res {
		if ev.Active {
			metrics.StrategyActive.WithLabelValues(ev.ID).Inc()
		}
	}
	return res
}

// Render runs the full pipeline. Indicators are computed on the full history
// and the panes are clipped to the visible range afterwards, so moving the
// range never changes an indicator value.
func (s *Service) Render(ctx context.Context, req model.ViewRequest) (*Result, error) {
	e, err := s.Enrich(ctx, req)
	if err != nil {
		return nil, err
	}
	detected := s.detect(e)

	start := time.Now()
	panes, err := chart.BuildPanes(e, req)
	if err != nil {
		return nil, err
	}
	tl := chart.NewTimeline(e.Bars)
	if err := chart.Align(panes, tl); err != nil {
		return nil, err
	}
	r, err := chart.VisibleRange(tl, req.RangeStart, req.RangeEnd)
	if err != nil {
		return nil, err
	}
	clipped := chart.Clip(panes, r)
	legend, err := chart.Legend(clipped, time.Unix(r.To, 0))
	if err != nil {
		return nil, err
	}
	metrics.ObserveStage("materialize", start)

	res := &Result{
		Request:    req,
		Panes:      clipped,
		Strategies: detected.Ordered(),
		Range:      r,
		Legend:     legend,
		Bars:       e.Len(),
		Timeline:   tl,
		FullPanes:  panes,
		Enriched:   e,
	}
	for _, w := range e.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}

	logger.WithContext(ctx).Debug("rendered view",
		logger.Symbol(req.Symbol),
		logger.Frequency(string(req.Frequency)),
		logger.Bars(e.Len()),
		logger.Int("visible", r.Bars()),
		logger.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

// LegendAt renders req and reads the legend at the crosshair time at.
func (s *Service) LegendAt(ctx context.Context, req model.ViewRequest, at time.Time) (chart.LegendSnapshot, error) {
	res, err := s.Render(ctx, req)
	if err != nil {
		return chart.LegendSnapshot{}, err
	}
	return chart.Legend(res.FullPanes, at)
}
