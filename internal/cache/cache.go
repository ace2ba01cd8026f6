package cache

import (
	"context"
	"time"

	"ChartDesk/internal/model"
)

// BarCache memoizes fetched daily bar histories for a short time.
type BarCache interface {
	Get(ctx context.Context, key string) ([]model.Bar, bool, error)
	Set(ctx context.Context, key string, bars []model.Bar, ttl time.Duration) error
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]model.Bar, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, []model.Bar, time.Duration) error { return nil }
