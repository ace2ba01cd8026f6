package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"ChartDesk/internal/model"
)

// MockFetcher returns controllable data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars, when set, is returned as-is for every symbol.
	Bars []model.Bar
	// Err, when set, is returned instead of data.
	Err error
	// End is the date of the last generated bar; zero means today.
	End   time.Time
	Delay time.Duration

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDaily ran.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

func (m *MockFetcher) FetchDaily(ctx context.Context, _ string, period model.Period) ([]model.Bar, error) {
	m.calls.Add(1)
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return append([]model.Bar(nil), m.Bars...), nil
	}
	days := period.Days()
	if days == 0 {
		days = 10 * 366
	}
	end := m.End
	if end.IsZero() {
		end = time.Now()
	}
	return GenerateBars(m.Price, dayStart(end), days), nil
}

// GenerateBars builds one weekday bar per day over the calendarDays before end,
// oscillating around basePrice.
func GenerateBars(basePrice float64, end time.Time, calendarDays int) []model.Bar {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.Bar
	for d := calendarDays - 1; d >= 0; d-- {
		t := end.AddDate(0, 0, -d)
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			continue
		}
		x := float64(len(bars))
		p := basePrice * (1 + 0.08*math.Sin(x/23) + 0.03*math.Sin(x/5))
		open := p * (1 + 0.004*math.Cos(x/3))
		bars = append(bars, model.Bar{
			Time:   t,
			Open:   open,
			High:   math.Max(open, p) * 1.005,
			Low:    math.Min(open, p) * 0.995,
			Close:  p,
			Volume: 1000000 * (1 + 0.5*math.Abs(math.Sin(x/7))),
		})
	}
	return bars
}
