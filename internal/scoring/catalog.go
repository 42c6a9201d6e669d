package scoring

import (
	"errors"
	"fmt"
)

// The catalog is static configuration: which formats each sport offers. A
// sport not present here cannot be completed, which is intentional.

var ErrUnknownFormat = errors.New("unknown scoring format")

const (
	SportVolleyball  = "volleyball"
	SportBasketball  = "basketball"
	SportSoccer      = "soccer"
	SportHockey      = "hockey"
	SportFloorHockey = "floor_hockey"
)

var catalog = []Format{
	{
		ID:    "vb-best-of-3",
		Name:  "Best of 3 sets (25/25/15)",
		Sport: SportVolleyball,
		Kind:  KindSet,
		Set: &SetRules{
			SetsToWin: 2,
			MaxSets:   3,
			Targets:   []int{25, 25, 15},
			Caps:      []int{30, 30, 20},
			WinByTwo:  true,
		},
	},
	{
		ID:    "vb-best-of-5",
		Name:  "Best of 5 sets (25×4/15)",
		Sport: SportVolleyball,
		Kind:  KindSet,
		Set: &SetRules{
			SetsToWin: 3,
			MaxSets:   5,
			Targets:   []int{25, 25, 25, 25, 15},
			Caps:      []int{30, 30, 30, 30, 20},
			WinByTwo:  true,
		},
	},
	{
		ID:    "vb-two-sets",
		Name:  "Two timed sets, no match winner",
		Sport: SportVolleyball,
		Kind:  KindSet,
		Set: &SetRules{
			SetsToWin:     0,
			MaxSets:       2,
			Targets:       []int{25, 25},
			Caps:          []int{0, 0},
			WinByTwo:      false,
			NoMatchWinner: true,
		},
	},
	{
		ID:    "bb-quarters",
		Name:  "4 quarters",
		Sport: SportBasketball,
		Kind:  KindPeriod,
		Period: &PeriodRules{
			Periods:  4,
			Label:    "Q",
			Overtime: true,
			AllowTie: false,
		},
	},
	{
		ID:    "bb-halves",
		Name:  "2 halves",
		Sport: SportBasketball,
		Kind:  KindPeriod,
		Period: &PeriodRules{
			Periods:  2,
			Label:    "H",
			Overtime: true,
			AllowTie: false,
		},
	},
	{
		ID:    "soc-halves",
		Name:  "2 halves, ties allowed",
		Sport: SportSoccer,
		Kind:  KindPeriod,
		Period: &PeriodRules{
			Periods:  2,
			Label:    "H",
			Overtime: false,
			AllowTie: true,
		},
	},
	{
		ID:    "hky-periods",
		Name:  "3 periods",
		Sport: SportHockey,
		Kind:  KindPeriod,
		Period: &PeriodRules{
			Periods:  3,
			Label:    "P",
			Overtime: true,
			AllowTie: false,
		},
	},
	{
		ID:    "fh-halves",
		Name:  "2 halves, ties allowed",
		Sport: SportFloorHockey,
		Kind:  KindPeriod,
		Period: &PeriodRules{
			Periods:  2,
			Label:    "H",
			Overtime: false,
			AllowTie: true,
		},
	},
}

var catalogByID = func() map[string]Format {
	m := make(map[string]Format, len(catalog))
	for _, f := range catalog {
		m[f.ID] = f
	}
	return m
}()

// FormatsForSport returns the formats a sport can be completed under, in
// catalog order. The slice is a copy; callers may not mutate the catalog.
func FormatsForSport(sport string) []Format {
	var out []Format
	for _, f := range catalog {
		if f.Sport == sport {
			out = append(out, f)
		}
	}
	return out
}

// FormatByID looks up a catalog format.
func FormatByID(id string) (Format, error) {
	f, ok := catalogByID[id]
	if !ok {
		return Format{}, fmt.Errorf("%w %q", ErrUnknownFormat, id)
	}
	return f, nil
}

// Sports returns every sport with at least one configured format.
func Sports() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range catalog {
		if !seen[f.Sport] {
			seen[f.Sport] = true
			out = append(out, f.Sport)
		}
	}
	return out
}
