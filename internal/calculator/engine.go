package calculator

import (
	"fmt"

	"ChartDesk/internal/model"
)

// Enriched is a bar series together with every derived indicator column. All
// series have len(Bars) entries. It is built once by Compute and only read
// afterwards.
type Enriched struct {
	Bars   []model.Bar
	Config Config

	MA     Lines
	EMA    Lines
	Boll   Band // close based
	BollTP Band // typical price based
	MACD   MACD
	KDJ    KDJ
	RSI    Lines
	BIAS   Lines
	OBV    Series
	OBVMA  Series

	// Warnings lists the indicators left undefined for lack of history. Each
	// entry is an *InsufficientDataError.
	Warnings []error
}

// Len returns the number of bars.
func (e *Enriched) Len() int {
	return len(e.Bars)
}

// Compute derives all indicator columns from bars. It never fails: an indicator
// whose window exceeds the series is left undefined and reported in Warnings.
func Compute(bars []model.Bar, cfg Config) *Enriched {
	cfg = cfg.Normalized()
	n := len(bars)
	e := &Enriched{
		Bars:   append([]model.Bar(nil), bars...),
		Config: cfg,
	}
	c := closes(e.Bars)

	need := func(name string, minBars int) {
		if n < minBars {
			e.Warnings = append(e.Warnings, &InsufficientDataError{Indicator: name, Need: minBars, Have: n})
		}
	}

	for _, p := range cfg.MAPeriods {
		need(fmt.Sprintf("MA%d", p), p)
		e.MA = append(e.MA, Line{Period: p, Values: SMA(c, p)})
	}
	for _, p := range cfg.EMAPeriods {
		need(fmt.Sprintf("EMA%d", p), p)
		e.EMA = append(e.EMA, Line{Period: p, Values: EMA(c, p)})
	}

	need("BOLL", cfg.BollPeriod)
	e.Boll = Bollinger(c, cfg.BollPeriod, cfg.BollMultiplier)
	need("BOLL-TP", cfg.BollPeriod)
	e.BollTP = Bollinger(typicalPrices(e.Bars), cfg.BollPeriod, cfg.BollMultiplier)

	need("MACD", max(cfg.MACDFast, cfg.MACDSlow)+cfg.MACDSignal-1)
	e.MACD = CalculateMACD(c, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)

	need("KDJ", cfg.KDJPeriod+cfg.KDJSmoothing-1)
	e.KDJ = CalculateKDJ(e.Bars, cfg.KDJPeriod, cfg.KDJSmoothing)

	for _, p := range cfg.RSIPeriods {
		need(fmt.Sprintf("RSI%d", p), p+1)
		e.RSI = append(e.RSI, Line{Period: p, Values: clean(RSI(c, p))})
	}
	for _, p := range cfg.BIASPeriods {
		need(fmt.Sprintf("BIAS%d", p), p)
		e.BIAS = append(e.BIAS, Line{Period: p, Values: clean(BIAS(c, p))})
	}

	obvBars := n
	if cfg.OBVLookback > 0 && cfg.OBVLookback < n {
		obvBars = cfg.OBVLookback
	}
	need("OBV", 1)
	e.OBV = OBV(e.Bars, cfg.OBVLookback)
	if obvBars < cfg.OBVSmoothing {
		e.Warnings = append(e.Warnings, &InsufficientDataError{Indicator: "OBV-MA", Need: cfg.OBVSmoothing, Have: obvBars})
	}
	e.OBVMA = SMA(e.OBV, cfg.OBVSmoothing)

	clean(e.KDJ.K)
	clean(e.KDJ.D)
	clean(e.KDJ.J)
	return e
}
