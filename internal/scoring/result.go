package scoring

// MatchResult is the canonical, derived outcome of a match. It is recomputed
// from the unit score sequence on every edit and holds no independent state.
type MatchResult struct {
	Outcome           Outcome `json:"outcome"`
	OurSetsWon        int     `json:"ourUnitsWon"`
	TheirSetsWon      int     `json:"theirUnitsWon"`
	OurPoints         int     `json:"ourTotalPoints"`
	TheirPoints       int     `json:"theirTotalPoints"`
	PointDifferential int     `json:"pointDifferential"`

	// Deadlocked distinguishes "regulation is over, the score is tied, and
	// this format can neither end in a tie nor go to overtime" from the
	// ordinary not-enough-data in_progress state. The outcome stays
	// in_progress; the completion gate uses this to explain why.
	Deadlocked bool `json:"deadlocked,omitempty"`
}

// Evaluate derives the match result for a format and its entered unit scores.
// Pure and idempotent: the same inputs always produce the identical result.
func Evaluate(format Format, scores []UnitScore) MatchResult {
	switch format.Kind {
	case KindSet:
		return evaluateSetMatch(format, scores)
	case KindPeriod:
		return evaluatePeriodMatch(format, scores)
	default:
		return MatchResult{Outcome: OutcomeInProgress}
	}
}

func evaluateSetMatch(format Format, scores []UnitScore) MatchResult {
	rules := format.Set
	result := MatchResult{Outcome: OutcomeInProgress}
	if rules == nil {
		return result
	}

	limit := len(scores)
	if limit > rules.MaxSets {
		limit = rules.MaxSets
	}
	for i := 0; i < limit; i++ {
		result.OurPoints += scores[i].Our
		result.TheirPoints += scores[i].Their

		set := EvaluateSet(scores[i], rules.SetTarget(i), rules.SetCap(i), rules.WinByTwo)
		if !set.Complete {
			continue
		}
		switch set.Winner {
		case WinnerOurs:
			result.OurSetsWon++
		case WinnerTheirs:
			result.TheirSetsWon++
		}
	}
	result.PointDifferential = result.OurPoints - result.TheirPoints

	if rules.NoMatchWinner {
		result.Outcome = OutcomeNone
		return result
	}
	switch {
	case rules.SetsToWin > 0 && result.OurSetsWon >= rules.SetsToWin:
		result.Outcome = OutcomeWin
	case rules.SetsToWin > 0 && result.TheirSetsWon >= rules.SetsToWin:
		result.Outcome = OutcomeLoss
	}
	return result
}

func evaluatePeriodMatch(format Format, scores []UnitScore) MatchResult {
	rules := format.Period
	result := MatchResult{Outcome: OutcomeInProgress}
	if rules == nil {
		return result
	}

	for _, s := range scores {
		result.OurPoints += s.Our
		result.TheirPoints += s.Their
	}
	result.PointDifferential = result.OurPoints - result.TheirPoints

	switch {
	case result.PointDifferential > 0:
		result.Outcome = OutcomeWin
	case result.PointDifferential < 0:
		result.Outcome = OutcomeLoss
	case result.OurPoints > 0 && rules.AllowTie:
		result.Outcome = OutcomeTie
	default:
		// Tied with ties disallowed, or nothing entered yet. If regulation
		// is fully entered and the format has no overtime to offer, the
		// match can never resolve: flag it so the workflow can say why.
		if result.OurPoints > 0 && len(scores) >= rules.Periods && !rules.Overtime && !rules.AllowTie {
			result.Deadlocked = true
		}
	}
	return result
}
