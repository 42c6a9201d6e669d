package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldhouse/fieldhouse/internal/completion"
	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
	"github.com/fieldhouse/fieldhouse/internal/testutil"
)

func newStores(t *testing.T) (*TeamStore, *GameStore) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewTeamStore(database), NewGameStore(database)
}

func seedTeam(t *testing.T, teams *TeamStore) *models.Team {
	t.Helper()
	team, err := teams.CreateTeam(context.Background(), CreateTeamParams{
		Name:   "Thunder U12",
		Sport:  "volleyball",
		Season: "Fall 2026",
	})
	require.NoError(t, err)
	return team
}

func seedGame(t *testing.T, games *GameStore, teamID int64) *models.Game {
	t.Helper()
	game, err := games.CreateGame(context.Background(), CreateGameParams{
		TeamID:       teamID,
		OpponentName: "Riverside Rockets",
		ScheduledAt:  time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return game
}

func TestCreateAndGetGame(t *testing.T) {
	teams, games := newStores(t)
	team := seedTeam(t, teams)

	game := seedGame(t, games, team.ID)
	assert.Equal(t, models.GameScheduled, game.Status)
	assert.Equal(t, "Riverside Rockets", game.OpponentName)
	assert.False(t, game.Outcome.Valid)

	got, err := games.GetGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.ID, got.ID)
}

func TestGetGameNotFound(t *testing.T) {
	_, games := newStores(t)

	_, err := games.GetGame(context.Background(), 9999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFinalizeGame(t *testing.T) {
	teams, games := newStores(t)
	team := seedTeam(t, teams)
	game := seedGame(t, games, team.ID)

	params := completion.FinalizeParams{
		GameID:            game.ID,
		FormatID:          "vb-best-of-3",
		Outcome:           scoring.OutcomeWin,
		OurPoints:         62,
		TheirPoints:       55,
		PointDifferential: 7,
		OurSetsWon:        2,
		TheirSetsWon:      1,
		UnitScores: []scoring.UnitScore{
			{Our: 25, Their: 20}, {Our: 22, Their: 25}, {Our: 15, Their: 10},
		},
		Notes: "Great comeback in the third.",
	}
	require.NoError(t, games.FinalizeGame(context.Background(), params))

	got, err := games.GetGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameCompleted, got.Status)
	assert.Equal(t, "win", got.Outcome.String)
	assert.EqualValues(t, 62, got.OurPoints.Int64)
	assert.EqualValues(t, 7, got.PointDifferential.Int64)
	assert.True(t, got.CompletedAt.Valid)
	assert.JSONEq(t,
		`[{"our":25,"their":20},{"our":22,"their":25},{"our":15,"their":10}]`,
		got.UnitScores.String)

	// Confirm retries re-run the finalize write; it stays idempotent.
	require.NoError(t, games.FinalizeGame(context.Background(), params))
	got, err = games.GetGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, "win", got.Outcome.String)
}

func TestReplaceAttendance(t *testing.T) {
	teams, games := newStores(t)
	team := seedTeam(t, teams)
	game := seedGame(t, games, team.ID)

	p1, err := teams.AddPlayer(context.Background(), AddPlayerParams{
		TeamID: team.ID, FirstName: "Ava", LastName: "Nguyen",
	})
	require.NoError(t, err)
	p2, err := teams.AddPlayer(context.Background(), AddPlayerParams{
		TeamID: team.ID, FirstName: "Ben", LastName: "Ortiz",
	})
	require.NoError(t, err)

	err = games.ReplaceAttendance(context.Background(), game.ID, []completion.AttendanceEntry{
		{PlayerID: p1.ID, Status: models.AttendancePresent},
		{PlayerID: p2.ID, Status: models.AttendanceAbsent},
	})
	require.NoError(t, err)

	// Replacing again swaps the rows rather than accumulating them.
	err = games.ReplaceAttendance(context.Background(), game.ID, []completion.AttendanceEntry{
		{PlayerID: p1.ID, Status: models.AttendanceLate},
	})
	require.NoError(t, err)

	entries, err := games.ListAttendance(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, p1.ID, entries[0].PlayerID)
	assert.Equal(t, models.AttendanceLate, entries[0].Status)
}

func TestInsertBadges(t *testing.T) {
	teams, games := newStores(t)
	team := seedTeam(t, teams)
	game := seedGame(t, games, team.ID)

	player, err := teams.AddPlayer(context.Background(), AddPlayerParams{
		TeamID: team.ID, FirstName: "Ava", LastName: "Nguyen",
	})
	require.NoError(t, err)

	require.NoError(t, games.InsertBadges(context.Background(), game.ID, []completion.BadgeEntry{
		{PlayerID: player.ID, BadgeType: models.BadgeMVP},
		{PlayerID: player.ID, BadgeType: models.BadgeHustle, Context: "12 digs"},
	}))
	require.NoError(t, games.InsertBadges(context.Background(), game.ID, nil))

	badges, err := games.ListBadges(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, models.BadgeMVP, badges[0].BadgeType)
	assert.Equal(t, "12 digs", badges[1].Context.String)

	history, err := games.ListPlayerBadges(context.Background(), player.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestListCompletedGames(t *testing.T) {
	teams, games := newStores(t)
	team := seedTeam(t, teams)
	first := seedGame(t, games, team.ID)
	second := seedGame(t, games, team.ID)

	require.NoError(t, games.FinalizeGame(context.Background(), completion.FinalizeParams{
		GameID: first.ID, FormatID: "soc-halves", Outcome: scoring.OutcomeTie,
		OurPoints: 2, TheirPoints: 2,
		UnitScores: []scoring.UnitScore{{Our: 1, Their: 1}, {Our: 1, Their: 1}},
	}))

	completed, err := games.ListCompletedGames(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, first.ID, completed[0].ID)
	assert.NotEqual(t, second.ID, completed[0].ID)
}

func TestCancelGame(t *testing.T) {
	teams, games := newStores(t)
	team := seedTeam(t, teams)
	game := seedGame(t, games, team.ID)

	require.NoError(t, games.CancelGame(context.Background(), game.ID))

	got, err := games.GetGame(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameCanceled, got.Status)

	// Canceled games cannot be canceled again or finalized.
	assert.ErrorIs(t, games.CancelGame(context.Background(), game.ID), sql.ErrNoRows)
	err = games.FinalizeGame(context.Background(), completion.FinalizeParams{
		GameID: game.ID, FormatID: "vb-best-of-3", Outcome: scoring.OutcomeWin,
	})
	assert.ErrorIs(t, err, ErrNotCompletable)
}
