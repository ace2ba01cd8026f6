package calculator

import "sort"

// requiredMAPeriods are always computed because the strategy rules read them.
var requiredMAPeriods = []int{20, 60, 120}

// Config holds the indicator parameters. Zero fields fall back to DefaultConfig.
type Config struct {
	MAPeriods      []int   `yaml:"ma_periods" validate:"dive,gt=0"`
	EMAPeriods     []int   `yaml:"ema_periods" validate:"dive,gt=0"`
	BollPeriod     int     `yaml:"boll_period" validate:"gte=0"`
	BollMultiplier float64 `yaml:"boll_multiplier" validate:"gte=0"`
	MACDFast       int     `yaml:"macd_fast" validate:"gte=0"`
	MACDSlow       int     `yaml:"macd_slow" validate:"gte=0"`
	MACDSignal     int     `yaml:"macd_signal" validate:"gte=0"`
	KDJPeriod      int     `yaml:"kdj_period" validate:"gte=0"`
	KDJSmoothing   int     `yaml:"kdj_smoothing" validate:"gte=0"`
	RSIPeriods     []int   `yaml:"rsi_periods" validate:"dive,gt=0"`
	BIASPeriods    []int   `yaml:"bias_periods" validate:"dive,gt=0"`
	OBVSmoothing   int     `yaml:"obv_smoothing" validate:"gte=0"`
	OBVLookback    int     `yaml:"obv_lookback" validate:"gte=0"` // 0 = full history
}

// DefaultConfig returns the dashboard's standard parameter set.
func DefaultConfig() Config {
	return Config{
		MAPeriods:      []int{5, 10, 20, 60, 120},
		EMAPeriods:     []int{12, 26},
		BollPeriod:     20,
		BollMultiplier: 2,
		MACDFast:       12,
		MACDSlow:       26,
		MACDSignal:     9,
		KDJPeriod:      9,
		KDJSmoothing:   3,
		RSIPeriods:     []int{6, 12, 24},
		BIASPeriods:    []int{6, 12, 24},
		OBVSmoothing:   10,
		OBVLookback:    0,
	}
}

// Normalized fills unset fields from DefaultConfig, adds the required MA periods
// and sorts and dedups every period list.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if len(c.MAPeriods) == 0 {
		c.MAPeriods = def.MAPeriods
	}
	if len(c.EMAPeriods) == 0 {
		c.EMAPeriods = def.EMAPeriods
	}
	if len(c.RSIPeriods) == 0 {
		c.RSIPeriods = def.RSIPeriods
	}
	if len(c.BIASPeriods) == 0 {
		c.BIASPeriods = def.BIASPeriods
	}
	if c.BollPeriod == 0 {
		c.BollPeriod = def.BollPeriod
	}
	if c.BollMultiplier == 0 {
		c.BollMultiplier = def.BollMultiplier
	}
	if c.MACDFast == 0 {
		c.MACDFast = def.MACDFast
	}
	if c.MACDSlow == 0 {
		c.MACDSlow = def.MACDSlow
	}
	if c.MACDSignal == 0 {
		c.MACDSignal = def.MACDSignal
	}
	if c.KDJPeriod == 0 {
		c.KDJPeriod = def.KDJPeriod
	}
	if c.KDJSmoothing == 0 {
		c.KDJSmoothing = def.KDJSmoothing
	}
	if c.OBVSmoothing == 0 {
		c.OBVSmoothing = def.OBVSmoothing
	}

	c.MAPeriods = uniqueSorted(append(append([]int(nil), c.MAPeriods...), requiredMAPeriods...))
	c.EMAPeriods = uniqueSorted(c.EMAPeriods)
	c.RSIPeriods = uniqueSorted(c.RSIPeriods)
	c.BIASPeriods = uniqueSorted(c.BIASPeriods)
	return c
}

func uniqueSorted(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	j := 0
	for i, v := range out {
		if v <= 0 || (i > 0 && v == out[i-1]) {
			continue
		}
		out[j] = v
		j++
	}
	return out[:j]
}
