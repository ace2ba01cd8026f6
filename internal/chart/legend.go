package chart

import (
	"fmt"
	"time"

	"ChartDesk/internal/model"
)

// LegendEntry is the value of one series under the crosshair.
type LegendEntry struct {
	Series string   `json:"series"`
	Value  *float64 `json:"value"`
	Color  string   `json:"color,omitempty"`
	Candle *Candle  `json:"candle,omitempty"`
}

// PaneLegend groups legend entries of one pane.
type PaneLegend struct {
	Pane    string        `json:"pane"`
	Entries []LegendEntry `json:"entries"`
}

// LegendSnapshot is the full legend for one timestamp.
type LegendSnapshot struct {
	Time  int64        `json:"time"`
	Panes []PaneLegend `json:"panes"`
}

// Legend looks up every series in panes at the crosshair time at. The crosshair
// snaps to the latest bar at or before at; a zero at selects the most recent bar.
func Legend(panes []Pane, at time.Time) (LegendSnapshot, error) {
	ts, ok := snap(panes, at)
	if !ok {
		return LegendSnapshot{}, fmt.Errorf("legend at %s: %w", at.Format("2006-01-02"), model.ErrNotFound)
	}

	snapshot := LegendSnapshot{Time: ts, Panes: make([]PaneLegend, 0, len(panes))}
	for _, p := range panes {
		pl := PaneLegend{Pane: p.ID, Entries: make([]LegendEntry, 0, len(p.Series))}
		for _, s := range p.Series {
			pl.Entries = append(pl.Entries, entryAt(s, ts))
		}
		snapshot.Panes = append(snapshot.Panes, pl)
	}
	return snapshot, nil
}

func snap(panes []Pane, at time.Time) (int64, bool) {
	var (
		best  int64
		found bool
		limit = at.Unix()
	)
	for _, p := range panes {
		for _, s := range p.Series {
			for _, ts := range s.Times() {
				if !at.IsZero() && ts > limit {
					continue
				}
				if !found || ts > best {
					best, found = ts, true
				}
			}
		}
	}
	return best, found
}

func entryAt(s Series, ts int64) LegendEntry {
	e := LegendEntry{Series: s.Name, Color: s.Color}
	if s.Kind == KindCandlestick {
		for i := range s.Candles {
			if s.Candles[i].Time == ts {
				c := s.Candles[i]
				e.Candle = &c
				e.Value = value(c.Close)
				break
			}
		}
		return e
	}
	for _, p := range s.Points {
		if p.Time == ts {
			e.Value = p.Value
			if p.Color != "" {
				e.Color = p.Color
			}
			break
		}
	}
	return e
}
