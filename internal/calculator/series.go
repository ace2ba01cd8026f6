package calculator

import (
	"math"

	"ChartDesk/internal/model"
)

// Series is an indicator column aligned index-for-index with the bar series.
// NaN marks "undefined at this bar".
type Series []float64

func undefinedSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	v := s[i]
	return v, isDefined(v)
}

// Defined counts the defined values.
func (s Series) Defined() int {
	n := 0
	for _, v := range s {
		if isDefined(v) {
			n++
		}
	}
	return n
}

func isDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clean turns ±Inf produced by a degenerate division into undefined.
func clean(s Series) Series {
	for i, v := range s {
		if math.IsInf(v, 0) {
			s[i] = math.NaN()
		}
	}
	return s
}

func closes(bars []model.Bar) Series {
	out := make(Series, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func typicalPrices(bars []model.Bar) Series {
	out := make(Series, len(bars))
	for i, b := range bars {
		out[i] = b.TypicalPrice()
	}
	return out
}

// window returns values[i-n+1 : i+1] or false when it does not fit or holds an
// undefined value.
func window(values Series, i, n int) (Series, bool) {
	if n <= 0 || i-n+1 < 0 || i >= len(values) {
		return nil, false
	}
	w := values[i-n+1 : i+1]
	for _, v := range w {
		if !isDefined(v) {
			return nil, false
		}
	}
	return w, true
}

// Line is one parameterization of a multi-period indicator, e.g. MA20.
type Line struct {
	Period int
	Values Series
}

// Lines holds the configured periods of one indicator in ascending order.
type Lines []Line

// Period returns the series for period n, nil when not configured.
func (l Lines) Period(n int) Series {
	for _, line := range l {
		if line.Period == n {
			return line.Values
		}
	}
	return nil
}
