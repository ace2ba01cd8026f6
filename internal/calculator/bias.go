package calculator

// BIAS returns the percentage deviation of the close from its n-bar SMA.
func BIAS(values Series, n int) Series {
	ma := SMA(values, n)
	out := undefinedSeries(len(values))
	for i, m := range ma {
		if !isDefined(m) || m == 0 || !isDefined(values[i]) {
			continue
		}
		out[i] = (values[i] - m) / m * 100
	}
	return out
}
