package calculator

import "errors"

// SMA returns the trailing simple moving average of values over n bars. The
// first n-1 positions, and any window holding an undefined input, are undefined.
func SMA(values Series, n int) Series {
	out := undefinedSeries(len(values))
	for i := n - 1; i < len(values); i++ {
		w, ok := window(values, i, n)
		if !ok {
			continue
		}
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		out[i] = sum / float64(n)
	}
	return out
}

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}
