// Package scoring implements the game completion engine: per-set evaluation,
// period aggregation, and canonical match outcomes for every configured sport.
// Everything in this package is a pure function over entered scores; nothing
// here touches the database or the HTTP layer.
package scoring

// FormatKind discriminates the two scoring disciplines. Exactly one of
// Format.Set / Format.Period is populated for a given kind.
type FormatKind string

const (
	KindSet    FormatKind = "set"
	KindPeriod FormatKind = "period"
)

// Outcome is the canonical match outcome. It is derived, never stored as
// independent state.
type Outcome string

const (
	OutcomeWin        Outcome = "win"
	OutcomeLoss       Outcome = "loss"
	OutcomeTie        Outcome = "tie"
	OutcomeNone       Outcome = "none"
	OutcomeInProgress Outcome = "in_progress"
)

// Winner identifies which side took a completed set.
type Winner string

const (
	WinnerOurs   Winner = "our"
	WinnerTheirs Winner = "their"
	WinnerNone   Winner = ""
)

// UnitScore is one set or one period, as entered. Scores are never negative;
// the entry layer floors decrements at zero.
type UnitScore struct {
	Our   int `json:"our"`
	Their int `json:"their"`
}

// SetRules parameterizes a set-based format (volleyball and friends).
// Targets and Caps are per-set and both have length MaxSets; a cap of 0 means
// the set has no cap.
type SetRules struct {
	SetsToWin     int   `json:"setsToWin"`
	MaxSets       int   `json:"maxSets"`
	Targets       []int `json:"setTargets"`
	Caps          []int `json:"setCaps"`
	WinByTwo      bool  `json:"winByTwo"`
	NoMatchWinner bool  `json:"noMatchWinner"`
}

// PeriodRules parameterizes a period-based format (basketball, soccer, hockey).
type PeriodRules struct {
	Periods  int    `json:"periods"`
	Label    string `json:"periodLabel"`
	Overtime bool   `json:"hasOvertime"`
	AllowTie bool   `json:"allowTie"`
}

// Format is a scoring format a game can be completed under. The Kind tag
// selects which rule set applies; the other pointer is always nil.
type Format struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Sport  string       `json:"sport"`
	Kind   FormatKind   `json:"kind"`
	Set    *SetRules    `json:"set,omitempty"`
	Period *PeriodRules `json:"period,omitempty"`
}

// IsSetBased reports whether the format scores by discrete set wins rather
// than summed period points.
func (f Format) IsSetBased() bool {
	return f.Kind == KindSet
}

// SetTarget returns the point target for the zero-based set index. Indexes
// past the configured sets reuse the final set's target, which keeps the
// evaluator total even on malformed input.
func (r SetRules) SetTarget(i int) int {
	if len(r.Targets) == 0 {
		return 0
	}
	if i >= len(r.Targets) {
		i = len(r.Targets) - 1
	}
	return r.Targets[i]
}

// SetCap returns the hard cap for the zero-based set index, 0 when uncapped.
func (r SetRules) SetCap(i int) int {
	if len(r.Caps) == 0 {
		return 0
	}
	if i >= len(r.Caps) {
		i = len(r.Caps) - 1
	}
	return r.Caps[i]
}
