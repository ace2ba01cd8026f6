package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Bar represents a single OHLCV observation. Missing upstream fields are NaN.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// HasPrice reports whether both open and close are known.
func (b Bar) HasPrice() bool {
	return defined(b.Open) && defined(b.Close)
}

// HasVolume reports whether the volume field is known.
func (b Bar) HasVolume() bool {
	return defined(b.Volume)
}

// Up reports whether the bar closed at or above its open.
func (b Bar) Up() bool {
	return b.Close >= b.Open
}

// TypicalPrice returns (high+low+close)/3, NaN when any component is missing.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Frequency is the bar interval requested by the viewer.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// Frequencies lists every supported frequency in ascending bar length.
var Frequencies = []Frequency{Daily, Weekly, Monthly, Quarterly, Yearly}

// ParseFrequency accepts the canonical names plus the short Yahoo-style aliases.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily", "d", "1d":
		return Daily, nil
	case "weekly", "w", "1wk":
		return Weekly, nil
	case "monthly", "m", "1mo":
		return Monthly, nil
	case "quarterly", "q", "3mo":
		return Quarterly, nil
	case "yearly", "y", "1y":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q", ErrInvalidRequest, s)
}

// Period is how much daily history is requested from the provider.
type Period string

const (
	Recent2Y Period = "2y"
	Recent5Y Period = "5y"
	Max      Period = "max"
)

// ParsePeriod validates a period string, defaulting to two years.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "2y":
		return Recent2Y, nil
	case "5y":
		return Recent5Y, nil
	case "max":
		return Max, nil
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrInvalidRequest, s)
}

// Days returns the approximate calendar span of the period, 0 for unbounded.
func (p Period) Days() int {
	switch p {
	case Recent2Y:
		return 2 * 366
	case Recent5Y:
		return 5 * 366
	}
	return 0
}
