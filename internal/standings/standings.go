// Package standings computes a team's season record from its completed games.
package standings

import (
	"fmt"

	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
)

type TeamRecord struct {
	TeamID            int64  `json:"teamId"`
	TeamName          string `json:"teamName"`
	GamesPlayed       int    `json:"gamesPlayed"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	Ties              int    `json:"ties"`
	PointsFor         int    `json:"pointsFor"`
	PointsAgainst     int    `json:"pointsAgainst"`
	PointDifferential int    `json:"pointDifferential"`
	Streak            string `json:"streak"`
}

// Compute folds a team's completed games, in played order, into its record.
// Games with a "none" outcome (scrimmage-style formats) count toward points
// but not toward wins, losses, ties, or the streak.
func Compute(team *models.Team, games []models.Game) TeamRecord {
	record := TeamRecord{
		TeamID:   team.ID,
		TeamName: team.Name,
	}

	streakOutcome := scoring.OutcomeNone
	streakLength := 0

	for _, game := range games {
		if game.Status != models.GameCompleted || !game.Outcome.Valid {
			continue
		}

		record.PointsFor += int(game.OurPoints.Int64)
		record.PointsAgainst += int(game.TheirPoints.Int64)

		outcome := scoring.Outcome(game.Outcome.String)
		switch outcome {
		case scoring.OutcomeWin:
			record.Wins++
		case scoring.OutcomeLoss:
			record.Losses++
		case scoring.OutcomeTie:
			record.Ties++
		default:
			continue
		}
		record.GamesPlayed++

		if outcome == streakOutcome {
			streakLength++
		} else {
			streakOutcome = outcome
			streakLength = 1
		}
	}

	record.PointDifferential = record.PointsFor - record.PointsAgainst
	record.Streak = formatStreak(streakOutcome, streakLength)
	return record
}

func formatStreak(outcome scoring.Outcome, length int) string {
	if length == 0 {
		return "-"
	}
	var prefix string
	switch outcome {
	case scoring.OutcomeWin:
		prefix = "W"
	case scoring.OutcomeLoss:
		prefix = "L"
	case scoring.OutcomeTie:
		prefix = "T"
	default:
		return "-"
	}
	return fmt.Sprintf("%s%d", prefix, length)
}
