// Package store is the persistence layer: sqlx-backed stores over the
// SQLite schema in internal/db/migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldhouse/fieldhouse/internal/db"
	"github.com/fieldhouse/fieldhouse/internal/models"
)

type TeamStore struct {
	db *db.DB
}

func NewTeamStore(database *db.DB) *TeamStore {
	return &TeamStore{db: database}
}

type CreateTeamParams struct {
	Name       string
	Sport      string
	Season     string
	CoachName  sql.NullString
	CoachEmail sql.NullString
}

func (s *TeamStore) CreateTeam(ctx context.Context, params CreateTeamParams) (*models.Team, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (name, sport, season, coach_name, coach_email)
		 VALUES (?, ?, ?, ?, ?)`,
		params.Name, params.Sport, params.Season, params.CoachName, params.CoachEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("team id: %w", err)
	}
	return s.GetTeam(ctx, id)
}

func (s *TeamStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	if err := s.db.GetContext(ctx, &team, "SELECT * FROM teams WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.SelectContext(ctx, &teams, "SELECT * FROM teams ORDER BY name ASC")
	return teams, err
}

type AddPlayerParams struct {
	TeamID        int64
	FirstName     string
	LastName      string
	JerseyNumber  sql.NullInt64
	GuardianName  sql.NullString
	GuardianPhone sql.NullString
}

func (s *TeamStore) AddPlayer(ctx context.Context, params AddPlayerParams) (*models.Player, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO players (team_id, first_name, last_name, jersey_number, guardian_name, guardian_phone)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		params.TeamID, params.FirstName, params.LastName,
		params.JerseyNumber, params.GuardianName, params.GuardianPhone,
	)
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("player id: %w", err)
	}

	var player models.Player
	if err := s.db.GetContext(ctx, &player, "SELECT * FROM players WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *TeamStore) ListRoster(ctx context.Context, teamID int64) ([]models.Player, error) {
	var players []models.Player
	err := s.db.SelectContext(ctx, &players,
		"SELECT * FROM players WHERE team_id = ? ORDER BY last_name ASC, first_name ASC", teamID)
	return players, err
}

func (s *TeamStore) RemovePlayer(ctx context.Context, teamID, playerID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM players WHERE id = ? AND team_id = ?", playerID, teamID)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
