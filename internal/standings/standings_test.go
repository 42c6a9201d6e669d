package standings

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldhouse/fieldhouse/internal/models"
)

func completedGame(outcome string, ours, theirs int64) models.Game {
	return models.Game{
		Status:      models.GameCompleted,
		Outcome:     sql.NullString{String: outcome, Valid: true},
		OurPoints:   sql.NullInt64{Int64: ours, Valid: true},
		TheirPoints: sql.NullInt64{Int64: theirs, Valid: true},
	}
}

func TestComputeRecord(t *testing.T) {
	team := &models.Team{ID: 3, Name: "Thunder U12"}
	games := []models.Game{
		completedGame("win", 62, 55),
		completedGame("win", 75, 60),
		completedGame("loss", 40, 52),
		completedGame("tie", 2, 2),
		completedGame("win", 50, 38),
	}

	record := Compute(team, games)

	assert.Equal(t, int64(3), record.TeamID)
	assert.Equal(t, "Thunder U12", record.TeamName)
	assert.Equal(t, 5, record.GamesPlayed)
	assert.Equal(t, 3, record.Wins)
	assert.Equal(t, 1, record.Losses)
	assert.Equal(t, 1, record.Ties)
	assert.Equal(t, 229, record.PointsFor)
	assert.Equal(t, 207, record.PointsAgainst)
	assert.Equal(t, 22, record.PointDifferential)
	assert.Equal(t, "W1", record.Streak)
}

func TestComputeStreakRuns(t *testing.T) {
	team := &models.Team{ID: 1, Name: "Comets"}
	games := []models.Game{
		completedGame("loss", 10, 20),
		completedGame("win", 20, 10),
		completedGame("win", 30, 10),
		completedGame("win", 25, 24),
	}

	record := Compute(team, games)
	assert.Equal(t, "W3", record.Streak)
}

func TestComputeSkipsScrimmages(t *testing.T) {
	team := &models.Team{ID: 1, Name: "Comets"}
	games := []models.Game{
		completedGame("win", 25, 20),
		// A no-winner format still moves the points columns.
		completedGame("none", 45, 45),
	}

	record := Compute(team, games)
	assert.Equal(t, 1, record.GamesPlayed)
	assert.Equal(t, 1, record.Wins)
	assert.Equal(t, 70, record.PointsFor)
	assert.Equal(t, 65, record.PointsAgainst)
	// The scrimmage does not reset or extend the streak.
	assert.Equal(t, "W1", record.Streak)
}

func TestComputeIgnoresIncompleteRows(t *testing.T) {
	team := &models.Team{ID: 1, Name: "Comets"}
	games := []models.Game{
		{Status: models.GameScheduled},
		{Status: models.GameCanceled},
	}

	record := Compute(team, games)
	assert.Equal(t, 0, record.GamesPlayed)
	assert.Equal(t, "-", record.Streak)
}
