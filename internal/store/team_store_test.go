package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListTeams(t *testing.T) {
	teams, _ := newStores(t)

	created, err := teams.CreateTeam(context.Background(), CreateTeamParams{
		Name:      "Zephyrs U10",
		Sport:     "soccer",
		Season:    "Spring 2026",
		CoachName: sql.NullString{String: "Dana Wells", Valid: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Zephyrs U10", created.Name)
	assert.Equal(t, "Dana Wells", created.CoachName.String)

	_, err = teams.CreateTeam(context.Background(), CreateTeamParams{
		Name: "Avalanche U10", Sport: "hockey", Season: "Spring 2026",
	})
	require.NoError(t, err)

	all, err := teams.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Sorted by name.
	assert.Equal(t, "Avalanche U10", all[0].Name)
	assert.Equal(t, "Zephyrs U10", all[1].Name)
}

func TestRosterLifecycle(t *testing.T) {
	teams, _ := newStores(t)
	team := seedTeam(t, teams)

	_, err := teams.AddPlayer(context.Background(), AddPlayerParams{
		TeamID: team.ID, FirstName: "Maya", LastName: "Brooks",
		JerseyNumber: sql.NullInt64{Int64: 7, Valid: true},
	})
	require.NoError(t, err)
	second, err := teams.AddPlayer(context.Background(), AddPlayerParams{
		TeamID: team.ID, FirstName: "Leo", LastName: "Adams",
	})
	require.NoError(t, err)

	roster, err := teams.ListRoster(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	// Sorted by last name.
	assert.Equal(t, "Adams", roster[0].LastName)
	assert.Equal(t, "Brooks", roster[1].LastName)

	require.NoError(t, teams.RemovePlayer(context.Background(), team.ID, second.ID))
	assert.ErrorIs(t, teams.RemovePlayer(context.Background(), team.ID, second.ID), sql.ErrNoRows)

	roster, err = teams.ListRoster(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestRemovePlayerWrongTeam(t *testing.T) {
	teams, _ := newStores(t)
	team := seedTeam(t, teams)
	other, err := teams.CreateTeam(context.Background(), CreateTeamParams{
		Name: "Comets U12", Sport: "volleyball", Season: "Fall 2026",
	})
	require.NoError(t, err)

	player, err := teams.AddPlayer(context.Background(), AddPlayerParams{
		TeamID: team.ID, FirstName: "Maya", LastName: "Brooks",
	})
	require.NoError(t, err)

	// Scoping by team keeps one team's roster edits off another's players.
	assert.ErrorIs(t, teams.RemovePlayer(context.Background(), other.ID, player.ID), sql.ErrNoRows)
}
