package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ChartDesk/internal/calculator"
)

// Catalog lists every series name Materialize accepts for e, in display order.
func Catalog(e *calculator.Enriched) []string {
	names := []string{"candles", "volume"}
	for _, l := range e.MA {
		names = append(names, fmt.Sprintf("ma%d", l.Period))
	}
	for _, l := range e.EMA {
		names = append(names, fmt.Sprintf("ema%d", l.Period))
	}
	names = append(names,
		"boll.upper", "boll.mid", "boll.lower",
		"bolltp.upper", "bolltp.mid", "bolltp.lower",
		"macd.dif", "macd.dea", "macd.hist",
		"kdj.k", "kdj.d", "kdj.j",
	)
	for _, l := range e.RSI {
		names = append(names, fmt.Sprintf("rsi%d", l.Period))
	}
	for _, l := range e.BIAS {
		names = append(names, fmt.Sprintf("bias%d", l.Period))
	}
	return append(names, "obv", "obv.ma")
}

// Materialize converts the named columns of e into chart series. Indicator
// series are dense: one point per bar, with a nil value where undefined.
func Materialize(e *calculator.Enriched, names []string) (map[string]Series, error) {
	out := make(map[string]Series, len(names))
	for _, name := range names {
		s, err := MaterializeOne(e, name)
		if err != nil {
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

// MaterializeOne converts a single named column.
func MaterializeOne(e *calculator.Enriched, name string) (Series, error) {
	m := materializer{e: e, times: unixTimes(e)}
	switch name {
	case "candles":
		return m.candles(), nil
	case "volume":
		return m.volume(), nil
	case "boll.upper":
		return m.line(name, e.Boll.Upper, ColorBand), nil
	case "boll.mid":
		return m.line(name, e.Boll.Mid, ColorBand), nil
	case "boll.lower":
		return m.line(name, e.Boll.Lower, ColorBand), nil
	case "bolltp.upper":
		return m.line(name, e.BollTP.Upper, ColorBandTP), nil
	case "bolltp.mid":
		return m.line(name, e.BollTP.Mid, ColorBandTP), nil
	case "bolltp.lower":
		return m.line(name, e.BollTP.Lower, ColorBandTP), nil
	case "macd.dif":
		return m.line(name, e.MACD.DIF, ColorNavy), nil
	case "macd.dea":
		return m.line(name, e.MACD.DEA, ColorMustard), nil
	case "macd.hist":
		return m.histogram(name, e.MACD.Hist), nil
	case "kdj.k":
		return m.line(name, e.KDJ.K, ColorNavy), nil
	case "kdj.d":
		return m.line(name, e.KDJ.D, ColorMustard), nil
	case "kdj.j":
		return m.line(name, e.KDJ.J, "#8E44AD"), nil
	case "obv":
		return m.line(name, e.OBV, ColorNavy), nil
	case "obv.ma":
		return m.line(name, e.OBVMA, ColorMustard), nil
	}

	for _, fam := range []struct {
		prefix string
		lines  calculator.Lines
	}{
		{"ema", e.EMA}, {"ma", e.MA}, {"rsi", e.RSI}, {"bias", e.BIAS},
	} {
		rest, ok := strings.CutPrefix(name, fam.prefix)
		if !ok {
			continue
		}
		period, err := strconv.Atoi(rest)
		if err != nil {
			break
		}
		for k, l := range fam.lines {
			if l.Period == period {
				return m.line(name, l.Values, periodColor(k)), nil
			}
		}
		break
	}
	return Series{}, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
}

type materializer struct {
	e     *calculator.Enriched
	times []int64
}

func unixTimes(e *calculator.Enriched) []int64 {
	out := make([]int64, len(e.Bars))
	for i, b := range e.Bars {
		out[i] = b.Time.Unix()
	}
	return out
}

// candles skips bars without a known open or close; a missing high or low is
// clamped to the body.
func (m materializer) candles() Series {
	s := Series{Name: "candles", Kind: KindCandlestick, Candles: []Candle{}}
	for i, b := range m.e.Bars {
		if !b.HasPrice() {
			continue
		}
		c := Candle{Time: m.times[i], Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
		if !finite(c.High) {
			c.High = math.Max(c.Open, c.Close)
		}
		if !finite(c.Low) {
			c.Low = math.Min(c.Open, c.Close)
		}
		s.Candles = append(s.Candles, c)
	}
	return s
}

// volume never skips a bar: a missing volume becomes 0 in the neutral color.
func (m materializer) volume() Series {
	s := Series{Name: "volume", Kind: KindHistogram, Points: make([]Point, len(m.e.Bars))}
	for i, b := range m.e.Bars {
		p := Point{Time: m.times[i], Value: value(0), Color: ColorNeutral}
		if b.HasVolume() {
			p.Value = value(b.Volume)
			if b.HasPrice() {
				p.Color = ColorDown
				if b.Up() {
					p.Color = ColorUp
				}
			}
		}
		s.Points[i] = p
	}
	return s
}

func (m materializer) line(name string, values calculator.Series, color string) Series {
	s := Series{Name: name, Kind: KindLine, Color: color, Points: make([]Point, len(m.times))}
	for i, t := range m.times {
		s.Points[i] = Point{Time: t, Value: definedValue(values, i)}
	}
	return s
}

func (m materializer) histogram(name string, values calculator.Series) Series {
	s := Series{Name: name, Kind: KindHistogram, Points: make([]Point, len(m.times))}
	for i, t := range m.times {
		p := Point{Time: t, Value: definedValue(values, i)}
		if p.Value != nil {
			p.Color = ColorDown
			if *p.Value >= 0 {
				p.Color = ColorUp
			}
		}
		s.Points[i] = p
	}
	return s
}

func definedValue(values calculator.Series, i int) *float64 {
	v, ok := values.At(i)
	if !ok {
		return nil
	}
	return value(v)
}

func value(v float64) *float64 {
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
