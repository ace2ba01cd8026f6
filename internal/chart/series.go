package chart

import "errors"

// ErrUnknownSeries is returned for a series name outside the catalog.
var ErrUnknownSeries = errors.New("unknown series")

// ErrMisaligned is returned when a pane series does not sit on the shared timeline.
var ErrMisaligned = errors.New("series not aligned to timeline")

// Kind tells the renderer how to draw a series.
type Kind string

const (
	KindCandlestick Kind = "candlestick"
	KindLine        Kind = "line"
	KindHistogram   Kind = "histogram"
)

// Candle is one price point. Candles are only emitted for bars with a known open
// and close.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Point is one indicator sample. A nil Value keeps the time slot with no value
// so that every dense series has exactly one point per bar.
type Point struct {
	Time  int64    `json:"time"`
	Value *float64 `json:"value"`
	Color string   `json:"color,omitempty"`
}

// Series is one drawable array handed to the chart renderer.
type Series struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Color   string   `json:"color,omitempty"`
	Candles []Candle `json:"candles,omitempty"`
	Points  []Point  `json:"points,omitempty"`
}

// Dense reports whether the series carries one point per bar.
func (s Series) Dense() bool {
	return s.Kind != KindCandlestick
}

// Times returns the timestamps of the series in order.
func (s Series) Times() []int64 {
	if s.Kind == KindCandlestick {
		out := make([]int64, len(s.Candles))
		for i, c := range s.Candles {
			out[i] = c.Time
		}
		return out
	}
	out := make([]int64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Palette.
const (
	ColorUp         = "#26A69A"
	ColorDown       = "#EF5350"
	ColorNeutral    = "rgba(128,128,128,0.25)"
	ColorNavy       = "#1A365D"
	ColorMustard    = "#D4AF37"
	ColorBand       = "#7F8C8D"
	ColorBandTP     = "#2E86C1"
	ColorBackground = "#FFFFFF"
	ColorGrid       = "rgba(26,54,93,0.08)"
)

var lineColors = []string{ColorMustard, ColorNavy, "#E67E22", "#8E44AD", "#16A085", "#C0392B", "#2C3E50"}

// periodColor picks a stable color for the k-th configured period of a family.
func periodColor(k int) string {
	return lineColors[k%len(lineColors)]
}
