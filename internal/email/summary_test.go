package email

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/fieldhouse/fieldhouse/internal/models"
)

func completedGame() *models.Game {
	return &models.Game{
		OpponentName:      "Riverside Rockets",
		Outcome:           sql.NullString{String: "win", Valid: true},
		OurPoints:         sql.NullInt64{Int64: 62, Valid: true},
		TheirPoints:       sql.NullInt64{Int64: 55, Valid: true},
		PointDifferential: sql.NullInt64{Int64: 7, Valid: true},
		OurSetsWon:        sql.NullInt64{Int64: 2, Valid: true},
		TheirSetsWon:      sql.NullInt64{Int64: 1, Valid: true},
	}
}

func TestBuildSummaryWin(t *testing.T) {
	team := &models.Team{Name: "Thunder U12"}
	subject, body := BuildSummary(team, completedGame())

	if subject != "Thunder U12 beat Riverside Rockets 62-55" {
		t.Errorf("unexpected subject: %q", subject)
	}
	for _, want := range []string{"Score: 62-55 (differential +7)", "Sets: 2-1"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildSummaryNotes(t *testing.T) {
	team := &models.Team{Name: "Thunder U12"}
	game := completedGame()
	game.Notes = sql.NullString{String: "Great comeback in the third.", Valid: true}

	_, body := BuildSummary(team, game)
	if !strings.Contains(body, "Great comeback in the third.") {
		t.Errorf("body missing notes:\n%s", body)
	}
}

func TestBuildSummaryScrimmage(t *testing.T) {
	team := &models.Team{Name: "Thunder U12"}
	game := completedGame()
	game.Outcome = sql.NullString{String: "none", Valid: true}
	game.OurSetsWon = sql.NullInt64{}
	game.TheirSetsWon = sql.NullInt64{}

	subject, body := BuildSummary(team, game)
	if subject != "Thunder U12 vs Riverside Rockets: final 62-55" {
		t.Errorf("unexpected subject: %q", subject)
	}
	if strings.Contains(body, "Sets:") {
		t.Errorf("scrimmage body should not list sets:\n%s", body)
	}
}
