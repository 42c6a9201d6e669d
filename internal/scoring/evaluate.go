package scoring

// SetOutcome is the result of evaluating a single set against its rules.
type SetOutcome struct {
	Complete bool
	Winner   Winner
}

// EvaluateSet decides whether one set is complete and who won it. It is a
// total function: any combination of non-negative scores and rule parameters
// yields a well-defined answer. It runs on every score edit, so it must stay
// allocation-free.
//
// Rule order:
//  1. nobody at target yet -> not complete
//  2. no win-by-two -> first side at target wins; a dead heat at or past the
//     target resolves to the strictly higher score, so an exact tie stays open
//  3. win-by-two -> a cap, once reached, ends the set on any lead; otherwise
//     a two point lead at or past the target is required
func EvaluateSet(score UnitScore, target, cap int, winByTwo bool) SetOutcome {
	if target <= 0 {
		return SetOutcome{}
	}
	high := score.Our
	if score.Their > high {
		high = score.Their
	}
	if high < target {
		return SetOutcome{}
	}

	diff := score.Our - score.Their
	if diff < 0 {
		diff = -diff
	}

	if !winByTwo {
		if diff == 0 {
			return SetOutcome{}
		}
		return SetOutcome{Complete: true, Winner: leader(score)}
	}

	if cap > 0 && high >= cap {
		if diff >= 1 {
			return SetOutcome{Complete: true, Winner: leader(score)}
		}
		return SetOutcome{}
	}

	if diff >= 2 {
		return SetOutcome{Complete: true, Winner: leader(score)}
	}
	return SetOutcome{}
}

func leader(score UnitScore) Winner {
	switch {
	case score.Our > score.Their:
		return WinnerOurs
	case score.Their > score.Our:
		return WinnerTheirs
	default:
		return WinnerNone
	}
}
