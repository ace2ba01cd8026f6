package strategy

import (
	"fmt"
	"math"

	"ChartDesk/internal/calculator"
)

const (
	breakoutLookback     = 20
	breakoutMaxAmplitude = 0.15
	breakoutVolumeBars   = 5
	breakoutVolumeFactor = 2.0

	squeezeMaxBandwidth = 0.10
	oversoldK           = 20.0
)

// checkBreakout flags a volume breakout out of a tight 20-bar range.
func checkBreakout(e *calculator.Enriched, curr int) Evaluation {
	ev := Evaluation{ID: IDBreakout, Name: "Consolidation Breakout"}
	bars := e.Bars

	hi, lo := math.NaN(), math.NaN()
	for _, b := range bars[curr-breakoutLookback : curr] {
		if !math.IsNaN(b.High) && (math.IsNaN(hi) || b.High > hi) {
			hi = b.High
		}
		if !math.IsNaN(b.Low) && (math.IsNaN(lo) || b.Low < lo) {
			lo = b.Low
		}
	}
	if math.IsNaN(hi) || math.IsNaN(lo) {
		ev.Message = "consolidating"
		return ev
	}
	if lo <= 0 {
		ev.Message = "amplitude too wide"
		return ev
	}
	amplitude := (hi - lo) / lo

	// mean of the defined volumes among the prior bars
	var vols []float64
	for _, b := range bars[curr-breakoutVolumeBars : curr] {
		if !math.IsNaN(b.Volume) {
			vols = append(vols, b.Volume)
		}
	}
	avgVol := math.NaN()
	if len(vols) > 0 {
		avgVol, _ = calculator.CalculateSMA(vols, len(vols))
	}

	c := bars[curr]
	if math.IsNaN(avgVol) || math.IsNaN(c.Volume) {
		ev.Detail = fmt.Sprintf("amplitude %.1f%%", amplitude*100)
	} else {
		ev.Detail = fmt.Sprintf("amplitude %.1f%%, vol %.1fx", amplitude*100, ratio(c.Volume, avgVol))
	}
	switch {
	case amplitude < breakoutMaxAmplitude && c.Close > hi && c.Volume > breakoutVolumeFactor*avgVol:
		ev.Active = true
		ev.Message = "volume breakout"
	case amplitude >= breakoutMaxAmplitude:
		ev.Message = "amplitude too wide"
	default:
		ev.Message = "consolidating"
	}
	return ev
}

// checkGoldenCross flags MA20 crossing above MA60 while price holds above MA120.
func checkGoldenCross(e *calculator.Enriched, curr int) Evaluation {
	ev := Evaluation{ID: IDGoldenCross, Name: "Golden Cross"}
	ma20, ma60, ma120 := e.MA.Period(20), e.MA.Period(60), e.MA.Period(120)

	prevFast, ok1 := ma20.At(curr - 1)
	prevSlow, ok2 := ma60.At(curr - 1)
	fast, ok3 := ma20.At(curr)
	slow, ok4 := ma60.At(curr)
	long, ok5 := ma120.At(curr)
	if !ok3 || !ok4 {
		ev.Message = "bearish/consolidating"
		return ev
	}
	ev.Detail = fmt.Sprintf("MA20 %.2f / MA60 %.2f", fast, slow)

	c := e.Bars[curr].Close
	switch {
	case ok1 && ok2 && ok5 && prevFast < prevSlow && fast > slow && c > long:
		ev.Active = true
		ev.Message = "golden cross above MA120"
	case fast > slow:
		ev.Message = "bullish alignment"
	default:
		ev.Message = "bearish/consolidating"
	}
	return ev
}

// checkSqueeze flags a close above the upper band of a compressed channel.
func checkSqueeze(e *calculator.Enriched, curr int) Evaluation {
	ev := Evaluation{ID: IDSqueeze, Name: "Bollinger Squeeze"}
	bw, ok := e.Boll.Bandwidth(curr)
	if !ok {
		ev.Message = "channel open"
		return ev
	}
	upper, _ := e.Boll.Upper.At(curr)
	ev.Detail = fmt.Sprintf("bandwidth %.1f%%", bw*100)

	switch {
	case bw < squeezeMaxBandwidth && e.Bars[curr].Close > upper:
		ev.Active = true
		ev.Message = "squeeze breakout"
	case bw < squeezeMaxBandwidth:
		ev.Message = "compressing"
	default:
		ev.Message = "channel open"
	}
	return ev
}

// checkOversoldCross flags K crossing above D below the oversold line.
func checkOversoldCross(e *calculator.Enriched, curr int) Evaluation {
	ev := Evaluation{ID: IDOversoldCross, Name: "Oversold KD Cross"}
	k, ok1 := e.KDJ.K.At(curr)
	d, ok2 := e.KDJ.D.At(curr)
	prevK, ok3 := e.KDJ.K.At(curr - 1)
	prevD, ok4 := e.KDJ.D.At(curr - 1)
	if !ok1 || !ok2 {
		ev.Message = "normal range"
		return ev
	}
	ev.Detail = fmt.Sprintf("K %.1f / D %.1f", k, d)

	switch {
	case k < oversoldK && ok3 && ok4 && prevK < prevD && k > d:
		ev.Active = true
		ev.Message = "oversold KD cross"
	case k < oversoldK:
		ev.Message = "oversold, no cross yet"
	default:
		ev.Message = "normal range"
	}
	return ev
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
