package scoring

// VisibleSets reports how many set slots should currently be rendered and
// editable for a set-based format: every completed set plus the next one,
// never fewer than two and never more than the format allows. A brand new
// game therefore always shows its two mandatory sets.
func VisibleSets(format Format, scores []UnitScore) int {
	if format.Kind != KindSet || format.Set == nil {
		return 0
	}
	rules := format.Set

	completed := 0
	limit := len(scores)
	if limit > rules.MaxSets {
		limit = rules.MaxSets
	}
	for i := 0; i < limit; i++ {
		if EvaluateSet(scores[i], rules.SetTarget(i), rules.SetCap(i), rules.WinByTwo).Complete {
			completed++
		}
	}

	visible := completed + 1
	if visible < 2 {
		visible = 2
	}
	if visible > rules.MaxSets {
		visible = rules.MaxSets
	}
	return visible
}

// NeedsOvertime reports whether an extra period must be offered: the format
// allows overtime, regulation is fully entered, and the match is genuinely
// tied. Callers append score slots only as periods are entered, so the
// slot count doubles as the entered-period count. A 0-0 game is not tied
// for this purpose, it simply has not been played. Once an overtime slot
// exists, another is offered only after that slot has been scored and the
// match is tied again.
func NeedsOvertime(format Format, scores []UnitScore) bool {
	if format.Kind != KindPeriod || format.Period == nil || !format.Period.Overtime {
		return false
	}
	rules := format.Period
	if len(scores) < rules.Periods {
		return false
	}

	var our, their int
	for _, s := range scores {
		our += s.Our
		their += s.Their
	}
	if our != their || our == 0 {
		return false
	}

	if len(scores) > rules.Periods {
		last := scores[len(scores)-1]
		if last.Our == 0 && last.Their == 0 {
			// Pending overtime slot not yet played.
			return false
		}
	}
	return true
}
