package chart

import (
	"fmt"
	"slices"
	"time"

	"ChartDesk/internal/model"
)

// Timeline is the canonical ordered set of bar timestamps (unix seconds) every
// pane is aligned to.
type Timeline struct {
	times []int64
	index map[int64]int
}

// NewTimeline builds the timeline of an ascending bar series.
func NewTimeline(bars []model.Bar) Timeline {
	tl := Timeline{times: make([]int64, len(bars)), index: make(map[int64]int, len(bars))}
	for i, b := range bars {
		ts := b.Time.Unix()
		tl.times[i] = ts
		tl.index[ts] = i
	}
	return tl
}

// Len returns the number of bars.
func (tl Timeline) Len() int { return len(tl.times) }

// Times returns a copy of the timestamps.
func (tl Timeline) Times() []int64 { return slices.Clone(tl.times) }

// Index returns the logical index of ts.
func (tl Timeline) Index(ts int64) (int, bool) {
	i, ok := tl.index[ts]
	return i, ok
}

// Align checks that every dense series in panes carries exactly the timeline's
// timestamps and that candle series use a subset of them in order.
func Align(panes []Pane, tl Timeline) error {
	for _, p := range panes {
		for _, s := range p.Series {
			if err := alignSeries(s, tl); err != nil {
				return fmt.Errorf("pane %s series %s: %w", p.ID, s.Name, err)
			}
		}
	}
	return nil
}

func alignSeries(s Series, tl Timeline) error {
	times := s.Times()
	if s.Dense() {
		if len(times) != tl.Len() {
			return fmt.Errorf("%w: %d points for %d bars", ErrMisaligned, len(times), tl.Len())
		}
		for i, ts := range times {
			if ts != tl.times[i] {
				return fmt.Errorf("%w: point %d at %d, bar at %d", ErrMisaligned, i, ts, tl.times[i])
			}
		}
		return nil
	}
	last := -1
	for _, ts := range times {
		i, ok := tl.index[ts]
		if !ok || i <= last {
			return fmt.Errorf("%w: candle at %d", ErrMisaligned, ts)
		}
		last = i
	}
	return nil
}

// Range is the visible window shared by every pane.
type Range struct {
	From      int64 `json:"from"`
	To        int64 `json:"to"`
	FromIndex int   `json:"fromIndex"`
	ToIndex   int   `json:"toIndex"`
	// StartPercent and EndPercent express the window as a share of the
	// timeline, the way data-zoom sliders take it.
	StartPercent float32 `json:"startPercent"`
	EndPercent   float32 `json:"endPercent"`
}

// Bars returns the number of bars in the window.
func (r Range) Bars() int { return r.ToIndex - r.FromIndex + 1 }

// VisibleRange resolves [from, to] against the timeline. A zero bound means
// the first or last bar. The result snaps inward to existing bars.
func VisibleRange(tl Timeline, from, to time.Time) (Range, error) {
	n := tl.Len()
	if n == 0 {
		return Range{}, fmt.Errorf("visible range: %w", model.ErrInsufficientData)
	}
	lo, hi := 0, n-1
	if !from.IsZero() {
		ts := from.Unix()
		lo, _ = slices.BinarySearch(tl.times, ts)
	}
	if !to.IsZero() {
		ts := to.Unix()
		i, found := slices.BinarySearch(tl.times, ts)
		if !found {
			i--
		}
		hi = i
	}
	if lo > hi || lo >= n || hi < 0 {
		return Range{}, fmt.Errorf("%w: no bars between %s and %s", model.ErrInvalidRequest,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	r := Range{
		From:         tl.times[lo],
		To:           tl.times[hi],
		FromIndex:    lo,
		ToIndex:      hi,
		StartPercent: 0,
		EndPercent:   100,
	}
	if n > 1 {
		r.StartPercent = float32(lo) / float32(n-1) * 100
		r.EndPercent = float32(hi) / float32(n-1) * 100
	}
	return r, nil
}

// Clip returns copies of panes restricted to r. Every pane is clipped by the
// same timestamps, so clipped panes stay aligned with each other.
func Clip(panes []Pane, r Range) []Pane {
	out := make([]Pane, len(panes))
	for i, p := range panes {
		cp := p
		cp.Series = make([]Series, len(p.Series))
		for j, s := range p.Series {
			cp.Series[j] = clipSeries(s, r)
		}
		out[i] = cp
	}
	return out
}

func clipSeries(s Series, r Range) Series {
	cp := s
	if s.Kind == KindCandlestick {
		cp.Candles = []Candle{}
		for _, c := range s.Candles {
			if c.Time >= r.From && c.Time <= r.To {
				cp.Candles = append(cp.Candles, c)
			}
		}
		return cp
	}
	cp.Points = []Point{}
	for _, p := range s.Points {
		if p.Time >= r.From && p.Time <= r.To {
			cp.Points = append(cp.Points, p)
		}
	}
	return cp
}
