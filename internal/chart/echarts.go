package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const pageWidth = "1280px"

// RenderHTML writes a standalone page with one chart per pane. The panes are
// rendered over the whole timeline and every chart's data zoom starts on the
// same visible range r.
func RenderHTML(w io.Writer, title string, tl Timeline, panes []Pane, r Range) error {
	page := components.NewPage()
	page.PageTitle = title

	for i, p := range panes {
		labels := axisLabels(tl, p.Options.TimeFormat)
		heading := p.Title
		if i == 0 {
			heading = title
		}
		global := []charts.GlobalOpts{
			charts.WithInitializationOpts(opts.Initialization{
				PageTitle: title,
				Width:     pageWidth,
				Height:    fmt.Sprintf("%dpx", p.Options.Height),
			}),
			charts.WithTitleOpts(opts.Title{Title: heading}),
			charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
			charts.WithDataZoomOpts(opts.DataZoom{
				Type:       "slider",
				Start:      r.StartPercent,
				End:        r.EndPercent,
				XAxisIndex: []int{0},
			}),
		}

		c, err := paneChart(p, labels, tl, global)
		if err != nil {
			return fmt.Errorf("render pane %s: %w", p.ID, err)
		}
		page.AddCharts(c)
	}
	return page.Render(w)
}

func axisLabels(tl Timeline, layout string) []string {
	out := make([]string, tl.Len())
	for i, ts := range tl.times {
		out[i] = time.Unix(ts, 0).UTC().Format(layout)
	}
	return out
}

func paneChart(p Pane, labels []string, tl Timeline, global []charts.GlobalOpts) (components.Charter, error) {
	var candles *Series
	var lines, bars []Series
	for i := range p.Series {
		s := p.Series[i]
		switch s.Kind {
		case KindCandlestick:
			candles = &p.Series[i]
		case KindHistogram:
			bars = append(bars, s)
		default:
			lines = append(lines, s)
		}
	}

	lineChart := func() *charts.Line {
		l := charts.NewLine()
		l.SetXAxis(labels)
		for _, s := range lines {
			l.AddSeries(s.Name, lineData(s),
				charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: 1}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			)
		}
		return l
	}

	switch {
	case candles != nil:
		k := charts.NewKLine()
		k.SetGlobalOptions(global...)
		k.SetXAxis(labels).AddSeries(candles.Name, klineData(*candles, tl),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:        ColorUp,
				Color0:       ColorDown,
				BorderColor:  ColorUp,
				BorderColor0: ColorDown,
			}),
		)
		if len(lines) > 0 {
			k.Overlap(lineChart())
		}
		return k, nil
	case len(bars) > 0:
		b := charts.NewBar()
		b.SetGlobalOptions(global...)
		b.SetXAxis(labels)
		for _, s := range bars {
			b.AddSeries(s.Name, barData(s))
		}
		if len(lines) > 0 {
			b.Overlap(lineChart())
		}
		return b, nil
	case len(lines) > 0:
		l := lineChart()
		l.SetGlobalOptions(global...)
		return l, nil
	}
	return nil, fmt.Errorf("pane has no series")
}

// klineData expands the sparse candle series back onto the full timeline;
// skipped bars render as gaps.
func klineData(s Series, tl Timeline) []opts.KlineData {
	out := make([]opts.KlineData, tl.Len())
	for _, c := range s.Candles {
		i, ok := tl.Index(c.Time)
		if !ok {
			continue
		}
		out[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}
	return out
}

func barData(s Series) []opts.BarData {
	out := make([]opts.BarData, len(s.Points))
	for i, p := range s.Points {
		d := opts.BarData{}
		if p.Value != nil {
			d.Value = *p.Value
		}
		if p.Color != "" {
			d.ItemStyle = &opts.ItemStyle{Color: p.Color}
		}
		out[i] = d
	}
	return out
}

func lineData(s Series) []opts.LineData {
	out := make([]opts.LineData, len(s.Points))
	for i, p := range s.Points {
		if p.Value != nil {
			out[i] = opts.LineData{Value: *p.Value}
		}
	}
	return out
}
