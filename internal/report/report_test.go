package report

import (
	"testing"
	"time"

	"ChartDesk/internal/chart"
	"ChartDesk/internal/strategy"

	"github.com/stretchr/testify/assert"
)

func TestFormatStrategies(t *testing.T) {
	out := FormatStrategies("AAPL", []strategy.Evaluation{
		{ID: strategy.IDBreakout, Name: "Volume breakout", Active: true, Message: "breakout confirmed"},
		{ID: strategy.IDSqueeze, Name: "Bollinger squeeze", Message: "channel open"},
	})
	assert.Contains(t, out, "AAPL strategies")
	assert.Contains(t, out, "breakout confirmed")
	assert.Contains(t, out, "YES")
	assert.Contains(t, out, "channel open")

	assert.Contains(t, FormatStrategies("AAPL", nil), "not enough history")
}

func TestFormatLegend(t *testing.T) {
	v := 12.5
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := FormatLegend(chart.LegendSnapshot{
		Time: at.Unix(),
		Panes: []chart.PaneLegend{
			{Pane: "price", Entries: []chart.LegendEntry{
				{Series: "candles", Candle: &chart.Candle{Open: 1, High: 2, Low: 0.5, Close: 1.5}},
				{Series: "ma120"},
			}},
			{Pane: "rsi", Entries: []chart.LegendEntry{{Series: "rsi6", Value: &v}}},
		},
	})
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "O 1.00 H 2.00 L 0.50 C 1.50")
	assert.Contains(t, out, "12.5000")
	assert.Contains(t, out, "ma120")
}

func TestFormatWarnings(t *testing.T) {
	assert.Empty(t, FormatWarnings(nil))
	out := FormatWarnings([]string{"MA120 needs 120 bars, have 50"})
	assert.Contains(t, out, "  - MA120")
}
