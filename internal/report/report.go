package report

import (
	"fmt"
	"strings"
	"time"

	"ChartDesk/internal/chart"
	"ChartDesk/internal/strategy"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatStrategies renders the strategy evaluations of one symbol as a table.
func FormatStrategies(symbol string, evals []strategy.Evaluation) string {
	t := newTable(fmt.Sprintf("%s strategies", symbol))
	t.AppendHeader(table.Row{"ID", "Strategy", "Active", "Status", "Detail"})
	for _, ev := range evals {
		active := "no"
		if ev.Active {
			active = "YES"
		}
		t.AppendRow(table.Row{ev.ID, ev.Name, active, ev.Message, ev.Detail})
	}
	if len(evals) == 0 {
		t.AppendRow(table.Row{"-", "not enough history", "", "", ""})
	}
	return t.Render()
}

// FormatLegend renders a legend snapshot with one row per series.
func FormatLegend(s chart.LegendSnapshot) string {
	t := newTable("Legend " + time.Unix(s.Time, 0).UTC().Format("2006-01-02"))
	t.AppendHeader(table.Row{"Pane", "Series", "Value"})
	for _, p := range s.Panes {
		for _, e := range p.Entries {
			t.AppendRow(table.Row{p.Pane, e.Series, legendValue(e)})
		}
		t.AppendSeparator()
	}
	return t.Render()
}

// FormatWarnings lists the indicators left undefined, one per line.
func FormatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("insufficient data:\n")
	for _, w := range warnings {
		b.WriteString("  - ")
		b.WriteString(w)
		b.WriteString("\n")
	}
	return b.String()
}

func legendValue(e chart.LegendEntry) string {
	if e.Candle != nil {
		c := e.Candle
		return fmt.Sprintf("O %.2f H %.2f L %.2f C %.2f", c.Open, c.High, c.Low, c.Close)
	}
	if e.Value == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *e.Value)
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}
