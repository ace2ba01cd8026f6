package store

import (
	"context"
	"time"

	"ChartDesk/internal/model"
)

// FetchRecord describes one successful upstream fetch.
type FetchRecord struct {
	Symbol    string
	Source    string
	Bars      int
	FetchedAt time.Time
}

// BarStore persists raw daily bars so the dashboard can still draw a chart when
// the upstream provider is unreachable. Computed indicators are never stored.
type BarStore interface {
	SaveBars(ctx context.Context, symbol, source string, bars []model.Bar) error
	LoadBars(ctx context.Context, symbol string, since time.Time) ([]model.Bar, error)
	LastFetch(ctx context.Context, symbol string) (*FetchRecord, error)
	Close() error
}
