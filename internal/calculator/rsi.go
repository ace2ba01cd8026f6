package calculator

// RSI computes the Wilder-smoothed relative strength index over closes. The
// first value lands on bar n (n price changes are needed). A window without
// losses reads 100.
func RSI(values Series, n int) Series {
	out := undefinedSeries(len(values))
	if n <= 0 || len(values) < n+1 {
		return out
	}

	gains := undefinedSeries(len(values))
	losses := undefinedSeries(len(values))
	for i := 1; i < len(values); i++ {
		if !isDefined(values[i]) || !isDefined(values[i-1]) {
			continue
		}
		change := values[i] - values[i-1]
		gains[i], losses[i] = 0, 0
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	alpha := 1 / float64(n)
	avgGain := smooth(gains, n, alpha)
	avgLoss := smooth(losses, n, alpha)
	for i := range values {
		if !isDefined(avgGain[i]) || !isDefined(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
