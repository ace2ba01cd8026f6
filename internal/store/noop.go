package store

import (
	"context"
	"time"

	"ChartDesk/internal/model"
)

// NoopStore is used when no database path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveBars(context.Context, string, string, []model.Bar) error      { return nil }
func (n *NoopStore) LoadBars(context.Context, string, time.Time) ([]model.Bar, error) { return nil, nil }
func (n *NoopStore) LastFetch(context.Context, string) (*FetchRecord, error)          { return nil, nil }
func (n *NoopStore) Close() error                                                     { return nil }
