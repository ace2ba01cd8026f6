package bars

import (
	"fmt"
	"math"
	"time"

	"ChartDesk/internal/model"
)

// periodKey maps a timestamp to the calendar partition it belongs to.
func periodKey(t time.Time, freq model.Frequency) int {
	switch freq {
	case model.Weekly:
		year, week := t.ISOWeek()
		return year*100 + week
	case model.Monthly:
		return t.Year()*100 + int(t.Month())
	case model.Quarterly:
		return t.Year()*10 + (int(t.Month())-1)/3 + 1
	case model.Yearly:
		return t.Year()
	}
	// daily: one partition per calendar day
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Aggregate resamples ascending daily bars into the target frequency.
// Each output bar opens with the first defined open of its partition, closes with
// the last defined close, spans the partition's extreme high/low and sums volume.
// The output bar carries the timestamp of the first daily bar in the partition.
// A partially elapsed period (e.g. the current month) is emitted from whatever
// bars exist so far. The input slice is never modified.
func Aggregate(daily []model.Bar, freq model.Frequency) ([]model.Bar, error) {
	if len(daily) == 0 {
		return nil, fmt.Errorf("aggregate %s: %w", freq, model.ErrInsufficientData)
	}
	switch freq {
	case model.Daily:
		out := make([]model.Bar, len(daily))
		copy(out, daily)
		return out, nil
	case model.Weekly, model.Monthly, model.Quarterly, model.Yearly:
	default:
		return nil, fmt.Errorf("%w: cannot aggregate to %q", model.ErrInvalidRequest, freq)
	}

	var out []model.Bar
	var cur model.Bar
	curKey := -1
	for _, d := range daily {
		key := periodKey(d.Time, freq)
		if key != curKey {
			if curKey != -1 {
				out = append(out, cur)
			}
			cur = model.Bar{
				Time:   d.Time,
				Open:   math.NaN(),
				High:   math.NaN(),
				Low:    math.NaN(),
				Close:  math.NaN(),
				Volume: math.NaN(),
			}
			curKey = key
		}
		merge(&cur, d)
	}
	out = append(out, cur)
	return out, nil
}

func merge(dst *model.Bar, d model.Bar) {
	if math.IsNaN(dst.Open) && !math.IsNaN(d.Open) {
		dst.Open = d.Open
	}
	if !math.IsNaN(d.High) && (math.IsNaN(dst.High) || d.High > dst.High) {
		dst.High = d.High
	}
	if !math.IsNaN(d.Low) && (math.IsNaN(dst.Low) || d.Low < dst.Low) {
		dst.Low = d.Low
	}
	if !math.IsNaN(d.Close) {
		dst.Close = d.Close
	}
	if !math.IsNaN(d.Volume) {
		if math.IsNaN(dst.Volume) {
			dst.Volume = 0
		}
		dst.Volume += d.Volume
	}
}
