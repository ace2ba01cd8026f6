package calculator

import (
	"math"

	"ChartDesk/internal/model"
)

// KDJ is the stochastic oscillator triple.
type KDJ struct {
	K Series
	D Series
	J Series
}

// CalculateKDJ computes RSV over n bars, K as RSV smoothed with factor 1/m, D as
// K smoothed with factor 1/m and J = 3K - 2D. A window whose highest high equals
// its lowest low yields RSV 50.
func CalculateKDJ(bars []model.Bar, n, m int) KDJ {
	rsv := undefinedSeries(len(bars))
	for i := n - 1; i >= 0 && i < len(bars); i++ {
		c := bars[i].Close
		if !isDefined(c) {
			continue
		}
		hhv, llv := math.Inf(-1), math.Inf(1)
		for _, b := range bars[i-n+1 : i+1] {
			if isDefined(b.High) && b.High > hhv {
				hhv = b.High
			}
			if isDefined(b.Low) && b.Low < llv {
				llv = b.Low
			}
		}
		if math.IsInf(hhv, 0) || math.IsInf(llv, 0) {
			continue
		}
		if hhv == llv {
			rsv[i] = 50
			continue
		}
		rsv[i] = (c - llv) / (hhv - llv) * 100
	}

	alpha := 1 / float64(m)
	k := smooth(rsv, m, alpha)
	d := smooth(k, m, alpha)
	j := undefinedSeries(len(bars))
	for i := range bars {
		if isDefined(k[i]) && isDefined(d[i]) {
			j[i] = 3*k[i] - 2*d[i]
		}
	}
	return KDJ{K: k, D: d, J: j}
}
