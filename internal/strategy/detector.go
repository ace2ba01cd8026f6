package strategy

import (
	"sort"

	"ChartDesk/internal/calculator"
)

// MinBars is the shortest history the rules are evaluated on.
const MinBars = 30

// Strategy identifiers.
const (
	IDBreakout      = "S1"
	IDGoldenCross   = "S2"
	IDSqueeze       = "S3"
	IDOversoldCross = "S4"
)

// Evaluation is the verdict of one rule on the most recent bar.
type Evaluation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Result maps strategy ID to its evaluation. It is empty when the series was too
// short to evaluate.
type Result map[string]Evaluation

// Ordered returns the evaluations sorted by ID (S1..S4).
func (r Result) Ordered() []Evaluation {
	out := make([]Evaluation, 0, len(r))
	for _, ev := range r {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveCount returns how many rules fired.
func (r Result) ActiveCount() int {
	n := 0
	for _, ev := range r {
		if ev.Active {
			n++
		}
	}
	return n
}

type rule func(e *calculator.Enriched, curr int) Evaluation

var rules = []rule{checkBreakout, checkGoldenCross, checkSqueeze, checkOversoldCross}

// Detect evaluates every rule independently against the last bar of e.
func Detect(e *calculator.Enriched) Result {
	res := Result{}
	if e == nil || e.Len() < MinBars {
		return res
	}
	curr := e.Len() - 1
	for _, r := range rules {
		ev := r(e, curr)
		res[ev.ID] = ev
	}
	return res
}
