package calculator

// MACD holds DIF (fast EMA minus slow EMA), its signal line DEA and the
// histogram DIF-DEA.
type MACD struct {
	DIF  Series
	DEA  Series
	Hist Series
}

// CalculateMACD computes MACD(fast, slow, signal) over closes.
func CalculateMACD(values Series, fast, slow, signal int) MACD {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	dif := undefinedSeries(len(values))
	for i := range values {
		if isDefined(emaFast[i]) && isDefined(emaSlow[i]) {
			dif[i] = emaFast[i] - emaSlow[i]
		}
	}
	dea := EMA(dif, signal)

	hist := undefinedSeries(len(values))
	for i := range values {
		if isDefined(dif[i]) && isDefined(dea[i]) {
			hist[i] = dif[i] - dea[i]
		}
	}
	return MACD{DIF: dif, DEA: dea, Hist: hist}
}
