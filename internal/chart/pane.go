package chart

import (
	"fmt"

	"ChartDesk/internal/calculator"
	"ChartDesk/internal/model"
)

// PaneOptions is the per-pane rendering configuration.
type PaneOptions struct {
	Background  string `json:"background"`
	GridColor   string `json:"gridColor"`
	PriceFormat string `json:"priceFormat"`
	TimeFormat  string `json:"timeFormat"`
	Height      int    `json:"height"`
}

// Pane is one stacked chart area. All panes of a view share the timeline.
type Pane struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Options PaneOptions `json:"options"`
	Series  []Series    `json:"series"`
}

// Pane IDs.
const (
	PanePrice  = "price"
	PaneVolume = "volume"
	PaneMACD   = "macd"
	PaneKDJ    = "kdj"
	PaneRSI    = "rsi"
	PaneOBV    = "obv"
	PaneBIAS   = "bias"
)

// TimeFormat returns the axis label layout for a bar frequency.
func TimeFormat(freq model.Frequency) string {
	switch freq {
	case model.Monthly, model.Quarterly:
		return "2006-01"
	case model.Yearly:
		return "2006"
	}
	return "2006-01-02"
}

type paneSpec struct {
	id        string
	title     string
	indicator string // empty: always shown
	height    int
	format    string
	names     func(e *calculator.Enriched, req model.ViewRequest) []string
}

var paneSpecs = []paneSpec{
	{id: PanePrice, title: "Price", height: 420, format: "0.00", names: priceSeries},
	{id: PaneVolume, title: "Volume", indicator: model.IndicatorVolume, height: 120, format: "0",
		names: fixed("volume")},
	{id: PaneMACD, title: "MACD", indicator: model.IndicatorMACD, height: 140, format: "0.000",
		names: fixed("macd.hist", "macd.dif", "macd.dea")},
	{id: PaneKDJ, title: "KDJ", indicator: model.IndicatorKDJ, height: 140, format: "0.00",
		names: fixed("kdj.k", "kdj.d", "kdj.j")},
	{id: PaneRSI, title: "RSI", indicator: model.IndicatorRSI, height: 140, format: "0.00",
		names: periodSeries("rsi", func(e *calculator.Enriched) calculator.Lines { return e.RSI })},
	{id: PaneOBV, title: "OBV", indicator: model.IndicatorOBV, height: 140, format: "0",
		names: fixed("obv", "obv.ma")},
	{id: PaneBIAS, title: "BIAS (%)", indicator: model.IndicatorBIAS, height: 140, format: "0.00",
		names: periodSeries("bias", func(e *calculator.Enriched) calculator.Lines { return e.BIAS })},
}

func fixed(names ...string) func(*calculator.Enriched, model.ViewRequest) []string {
	return func(*calculator.Enriched, model.ViewRequest) []string { return names }
}

func periodSeries(prefix string, lines func(*calculator.Enriched) calculator.Lines) func(*calculator.Enriched, model.ViewRequest) []string {
	return func(e *calculator.Enriched, _ model.ViewRequest) []string {
		var names []string
		for _, l := range lines(e) {
			names = append(names, fmt.Sprintf("%s%d", prefix, l.Period))
		}
		return names
	}
}

func priceSeries(e *calculator.Enriched, req model.ViewRequest) []string {
	names := []string{"candles"}
	if req.Shows(model.IndicatorMA) {
		for _, l := range e.MA {
			names = append(names, fmt.Sprintf("ma%d", l.Period))
		}
	}
	if req.Shows(model.IndicatorBoll) {
		names = append(names, "boll.upper", "boll.mid", "boll.lower")
	}
	if req.Shows(model.IndicatorBollTP) {
		names = append(names, "bolltp.upper", "bolltp.mid", "bolltp.lower")
	}
	return names
}

// BuildPanes assembles the price pane and every indicator pane the request
// shows, in a fixed top-to-bottom order.
func BuildPanes(e *calculator.Enriched, req model.ViewRequest) ([]Pane, error) {
	timeFormat := TimeFormat(req.Frequency)
	var panes []Pane
	for _, spec := range paneSpecs {
		if spec.indicator != "" && !req.Shows(spec.indicator) {
			continue
		}
		names := spec.names(e, req)
		series, err := Materialize(e, names)
		if err != nil {
			return nil, fmt.Errorf("pane %s: %w", spec.id, err)
		}
		p := Pane{
			ID:    spec.id,
			Title: spec.title,
			Options: PaneOptions{
				Background:  ColorBackground,
				GridColor:   ColorGrid,
				PriceFormat: spec.format,
				TimeFormat:  timeFormat,
				Height:      spec.height,
			},
			Series: make([]Series, 0, len(names)),
		}
		for _, name := range names {
			p.Series = append(p.Series, series[name])
		}
		panes = append(panes, p)
	}
	return panes, nil
}
