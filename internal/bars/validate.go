package bars

import (
	"fmt"
	"sort"

	"ChartDesk/internal/model"
)

// Validate checks the structural invariants of a single bar. Missing (NaN)
// fields are allowed; only contradictory values are rejected.
func Validate(b model.Bar) error {
	if b.Time.IsZero() {
		return fmt.Errorf("%w: zero timestamp", model.ErrMalformedBar)
	}
	if b.High < b.Low {
		return fmt.Errorf("%w: high %.4f < low %.4f at %s", model.ErrMalformedBar, b.High, b.Low, b.Time.Format("2006-01-02"))
	}
	if b.Volume < 0 {
		return fmt.Errorf("%w: negative volume at %s", model.ErrMalformedBar, b.Time.Format("2006-01-02"))
	}
	return nil
}

// Normalize returns a strictly increasing bar series: sorted by time, one bar per
// timestamp (the later one wins) and malformed bars dropped rather than failing
// the whole series. The second return value is the number of dropped bars.
func Normalize(in []model.Bar) ([]model.Bar, int) {
	sorted := make([]model.Bar, 0, len(in))
	dropped := 0
	for _, b := range in {
		if err := Validate(b); err != nil {
			dropped++
			continue
		}
		sorted = append(sorted, b)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out, dropped
}
