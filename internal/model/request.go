package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Indicator groups that can be toggled on the dashboard.
const (
	IndicatorMA     = "ma"
	IndicatorBoll   = "boll"
	IndicatorBollTP = "bolltp"
	IndicatorVolume = "volume"
	IndicatorMACD   = "macd"
	IndicatorKDJ    = "kdj"
	IndicatorRSI    = "rsi"
	IndicatorOBV    = "obv"
	IndicatorBIAS   = "bias"
)

// DefaultIndicators is used when a request does not name any.
var DefaultIndicators = []string{
	IndicatorMA, IndicatorBoll, IndicatorVolume, IndicatorMACD,
	IndicatorKDJ, IndicatorRSI, IndicatorOBV, IndicatorBIAS,
}

var knownIndicators = map[string]bool{
	IndicatorMA: true, IndicatorBoll: true, IndicatorBollTP: true, IndicatorVolume: true,
	IndicatorMACD: true, IndicatorKDJ: true, IndicatorRSI: true, IndicatorOBV: true, IndicatorBIAS: true,
}

// ViewRequest is everything one render depends on. It is built once per user
// interaction and never mutated; the pipeline holds no state between calls.
type ViewRequest struct {
	Symbol     string    `json:"symbol"`
	Period     Period    `json:"period"`
	Frequency  Frequency `json:"frequency"`
	RangeStart time.Time `json:"rangeStart"` // zero means from the first bar
	RangeEnd   time.Time `json:"rangeEnd"`   // zero means up to the last bar
	Indicators []string  `json:"indicators"`
}

// NewViewRequest normalizes and validates the raw request parameters.
func NewViewRequest(symbol, period, frequency string, start, end time.Time, indicators []string) (ViewRequest, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ViewRequest{}, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	p, err := ParsePeriod(period)
	if err != nil {
		return ViewRequest{}, err
	}
	f, err := ParseFrequency(frequency)
	if err != nil {
		return ViewRequest{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return ViewRequest{}, fmt.Errorf("%w: range end before range start", ErrInvalidRequest)
	}

	set := make(map[string]bool)
	for _, raw := range indicators {
		for _, name := range strings.Split(raw, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if !knownIndicators[name] {
				return ViewRequest{}, fmt.Errorf("%w: unknown indicator %q", ErrInvalidRequest, name)
			}
			set[name] = true
		}
	}
	var list []string
	if len(set) == 0 {
		list = append(list, DefaultIndicators...)
	} else {
		for name := range set {
			list = append(list, name)
		}
	}
	sort.Strings(list)

	return ViewRequest{
		Symbol:     strings.ToUpper(symbol),
		Period:     p,
		Frequency:  f,
		RangeStart: start,
		RangeEnd:   end,
		Indicators: list,
	}, nil
}

// Shows reports whether an indicator group is visible in this request.
func (r ViewRequest) Shows(indicator string) bool {
	for _, name := range r.Indicators {
		if name == indicator {
			return true
		}
	}
	return false
}

// CacheKey identifies the fetched daily history this request depends on.
func (r ViewRequest) CacheKey() string {
	return r.Symbol + "@" + string(r.Period)
}
