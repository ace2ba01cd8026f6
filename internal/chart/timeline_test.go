package chart

import (
	"bytes"
	"testing"
	"time"

	"ChartDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPanes_AlignedToTimeline(t *testing.T) {
	e := enriched(130)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)

	var ids []string
	for _, p := range panes {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{PanePrice, PaneVolume, PaneMACD, PaneKDJ, PaneRSI, PaneOBV, PaneBIAS}, ids)

	tl := NewTimeline(e.Bars)
	require.NoError(t, Align(panes, tl))
	for _, p := range panes {
		for _, s := range p.Series {
			if s.Dense() {
				assert.Len(t, s.Points, tl.Len(), "%s/%s", p.ID, s.Name)
			}
		}
	}
}

func TestBuildPanes_BIASAlreadyInPercent(t *testing.T) {
	e := enriched(130)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)

	bias := panes[len(panes)-1]
	require.Equal(t, PaneBIAS, bias.ID)
	assert.Equal(t, "0.00", bias.Options.PriceFormat, "values are scaled by 100 already")
	assert.Contains(t, bias.Title, "%")

	last := len(e.Bars) - 1
	require.NotNil(t, bias.Series[0].Points[last].Value)
	assert.Equal(t, e.BIAS[0].Values[last], *bias.Series[0].Points[last].Value)
}

func TestBuildPanes_IndicatorSelection(t *testing.T) {
	e := enriched(60)
	req, err := model.NewViewRequest("X", "", "monthly", time.Time{}, time.Time{}, []string{"rsi"})
	require.NoError(t, err)

	panes, err := BuildPanes(e, req)
	require.NoError(t, err)
	require.Len(t, panes, 2)
	assert.Equal(t, PanePrice, panes[0].ID)
	assert.Len(t, panes[0].Series, 1, "no MA overlays when ma is hidden")
	assert.Equal(t, PaneRSI, panes[1].ID)
	assert.Len(t, panes[1].Series, 3)
	assert.Equal(t, "2006-01", panes[1].Options.TimeFormat)
}

func TestAlign_DetectsMisalignment(t *testing.T) {
	e := enriched(40)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)

	short := NewTimeline(e.Bars[:39])
	assert.ErrorIs(t, Align(panes, short), ErrMisaligned)

	panes[2].Series[0].Points[5].Time++
	assert.ErrorIs(t, Align(panes, NewTimeline(e.Bars)), ErrMisaligned)
}

func TestVisibleRange(t *testing.T) {
	bars := testBars(101)
	tl := NewTimeline(bars)

	r, err := VisibleRange(tl, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, r.FromIndex)
	assert.Equal(t, 100, r.ToIndex)
	assert.Equal(t, float32(0), r.StartPercent)
	assert.Equal(t, float32(100), r.EndPercent)

	// bounds between bars snap inward
	from := bars[50].Time.Add(-12 * time.Hour)
	to := bars[75].Time.Add(12 * time.Hour)
	r, err = VisibleRange(tl, from, to)
	require.NoError(t, err)
	assert.Equal(t, 50, r.FromIndex)
	assert.Equal(t, 75, r.ToIndex)
	assert.Equal(t, bars[50].Time.Unix(), r.From)
	assert.Equal(t, 26, r.Bars())
	assert.InDelta(t, 50.0, r.StartPercent, 1e-4)

	_, err = VisibleRange(tl, bars[100].Time.AddDate(0, 0, 1), time.Time{})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)

	_, err = VisibleRange(NewTimeline(nil), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestClip_SameRangeEveryPane(t *testing.T) {
	e := enriched(120)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)
	tl := NewTimeline(e.Bars)

	r, err := VisibleRange(tl, e.Bars[30].Time, e.Bars[89].Time)
	require.NoError(t, err)
	clipped := Clip(panes, r)

	for _, p := range clipped {
		for _, s := range p.Series {
			times := s.Times()
			require.NotEmpty(t, times)
			assert.Equal(t, r.From, times[0], "%s/%s", p.ID, s.Name)
			assert.Equal(t, r.To, times[len(times)-1], "%s/%s", p.ID, s.Name)
			if s.Dense() {
				assert.Len(t, s.Points, 60)
			}
		}
	}
	// source panes untouched
	assert.Len(t, panes[0].Series[0].Candles, 120)
}

func TestClip_DoesNotChangeIndicatorValues(t *testing.T) {
	e := enriched(150)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)
	tl := NewTimeline(e.Bars)
	r, err := VisibleRange(tl, e.Bars[140].Time, time.Time{})
	require.NoError(t, err)

	clipped := Clip(panes, r)
	full := panes[0].Series[len(panes[0].Series)-1]
	cut := clipped[0].Series[len(clipped[0].Series)-1]
	for i, p := range cut.Points {
		assert.Equal(t, full.Points[140+i].Value, p.Value)
	}
}

func TestLegend(t *testing.T) {
	e := enriched(60)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)

	snap, err := Legend(panes, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, e.Bars[59].Time.Unix(), snap.Time)
	require.Len(t, snap.Panes, len(panes))
	candle := snap.Panes[0].Entries[0]
	require.NotNil(t, candle.Candle)
	assert.Equal(t, e.Bars[59].Close, candle.Candle.Close)

	// a weekend crosshair snaps back to the previous bar
	at := e.Bars[40].Time.Add(18 * time.Hour)
	snap, err = Legend(panes, at)
	require.NoError(t, err)
	assert.Equal(t, e.Bars[40].Time.Unix(), snap.Time)
	for _, pl := range snap.Panes {
		if pl.Pane != PaneRSI {
			continue
		}
		require.NotNil(t, pl.Entries[0].Value)
		assert.Equal(t, e.RSI.Period(6)[40], *pl.Entries[0].Value)
	}

	_, err = Legend(panes, e.Bars[0].Time.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLegend_UndefinedValues(t *testing.T) {
	e := enriched(60)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)

	snap, err := Legend(panes, e.Bars[3].Time)
	require.NoError(t, err)
	for _, entry := range snap.Panes[0].Entries {
		if entry.Series == "ma20" {
			assert.Nil(t, entry.Value)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	e := enriched(90)
	panes, err := BuildPanes(e, fullRequest())
	require.NoError(t, err)
	tl := NewTimeline(e.Bars)
	r, err := VisibleRange(tl, e.Bars[45].Time, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, "TEST daily", tl, panes, r))
	html := buf.String()
	assert.Contains(t, html, "TEST daily")
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, e.Bars[0].Time.Format("2006-01-02"))
}
