package collector

import (
	"context"

	"ChartDesk/internal/model"
)

// Fetcher retrieves the daily bar history of a symbol from one provider.
// Implementations return model.ErrNotFound when the provider has no bars.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error)
	Name() string
}
