package calculator

// Seeding convention
//
// Every recursive smoother in this package (EMA, the MACD signal line, the K and
// D lines of KDJ and the Wilder averages of RSI) is seeded the same way: the
// first output is the simple mean of the first n defined inputs and sits on the
// n-th defined input. From there on
//
//	out[i] = out[i-1] + alpha * (in[i] - out[i-1])
//
// Leading undefined inputs (e.g. the warm-up of DIF feeding DEA) are skipped
// before counting. An undefined input after seeding leaves that position
// undefined and carries the previous state forward.

// EMA returns the exponential moving average with alpha = 2/(n+1).
func EMA(values Series, n int) Series {
	if n <= 0 {
		return undefinedSeries(len(values))
	}
	return smooth(values, n, 2/float64(n+1))
}

// smooth applies the seeded recursive filter described above.
func smooth(values Series, n int, alpha float64) Series {
	out := undefinedSeries(len(values))
	if n <= 0 {
		return out
	}
	var (
		seeded bool
		count  int
		sum    float64
		prev   float64
	)
	for i, v := range values {
		if !isDefined(v) {
			continue
		}
		if !seeded {
			sum += v
			count++
			if count == n {
				prev = sum / float64(n)
				out[i] = prev
				seeded = true
			}
			continue
		}
		prev += alpha * (v - prev)
		out[i] = prev
	}
	return out
}
