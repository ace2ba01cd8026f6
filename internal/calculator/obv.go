package calculator

import "ChartDesk/internal/model"

// OBV computes on-balance volume over the last lookback bars (all bars when
// lookback is 0 or exceeds the series). The running total starts at 0 on the
// first bar of the window; bars before it are undefined. Volume is added on an
// up close, subtracted on a down close and ignored on a flat one. A bar with a
// missing close or volume carries the total unchanged.
func OBV(bars []model.Bar, lookback int) Series {
	out := undefinedSeries(len(bars))
	if len(bars) == 0 {
		return out
	}
	start := 0
	if lookback > 0 && lookback < len(bars) {
		start = len(bars) - lookback
	}

	total := 0.0
	out[start] = 0
	lastClose := bars[start].Close
	for i := start + 1; i < len(bars); i++ {
		b := bars[i]
		if isDefined(b.Close) && isDefined(b.Volume) && isDefined(lastClose) {
			switch {
			case b.Close > lastClose:
				total += b.Volume
			case b.Close < lastClose:
				total -= b.Volume
			}
		}
		if isDefined(b.Close) {
			lastClose = b.Close
		}
		out[i] = total
	}
	return out
}
