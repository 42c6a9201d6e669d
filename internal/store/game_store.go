package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fieldhouse/fieldhouse/internal/completion"
	"github.com/fieldhouse/fieldhouse/internal/db"
	"github.com/fieldhouse/fieldhouse/internal/models"
)

// ErrNotCompletable is returned when a finalize write targets a canceled
// game.
var ErrNotCompletable = fmt.Errorf("game is not in a completable state")

type GameStore struct {
	db *db.DB
}

func NewGameStore(database *db.DB) *GameStore {
	return &GameStore{db: database}
}

type CreateGameParams struct {
	TeamID       int64
	OpponentName string
	Location     sql.NullString
	ScheduledAt  time.Time
}

func (s *GameStore) CreateGame(ctx context.Context, params CreateGameParams) (*models.Game, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO games (team_id, opponent_name, location, scheduled_at, status)
		 VALUES (?, ?, ?, ?, ?)`,
		params.TeamID, params.OpponentName, params.Location, params.ScheduledAt, models.GameScheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("game id: %w", err)
	}
	return s.GetGame(ctx, id)
}

func (s *GameStore) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	if err := s.db.GetContext(ctx, &game, "SELECT * FROM games WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *GameStore) ListGamesByTeam(ctx context.Context, teamID int64) ([]models.Game, error) {
	var games []models.Game
	err := s.db.SelectContext(ctx, &games,
		"SELECT * FROM games WHERE team_id = ? ORDER BY scheduled_at ASC", teamID)
	return games, err
}

// ListCompletedGames returns a team's completed games in the order they were
// played, the input the standings calculator works from.
func (s *GameStore) ListCompletedGames(ctx context.Context, teamID int64) ([]models.Game, error) {
	var games []models.Game
	err := s.db.SelectContext(ctx, &games,
		`SELECT * FROM games
		 WHERE team_id = ? AND status = ?
		 ORDER BY scheduled_at ASC`,
		teamID, models.GameCompleted)
	return games, err
}

func (s *GameStore) CancelGame(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE games SET status = ? WHERE id = ? AND status = ?",
		models.GameCanceled, id, models.GameScheduled)
	if err != nil {
		return fmt.Errorf("cancel game: %w", err)
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

func (s *GameStore) ListAttendance(ctx context.Context, gameID int64) ([]models.Attendance, error) {
	var entries []models.Attendance
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM game_attendance WHERE game_id = ? ORDER BY player_id ASC", gameID)
	return entries, err
}

func (s *GameStore) ListBadges(ctx context.Context, gameID int64) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.SelectContext(ctx, &badges,
		"SELECT * FROM player_badges WHERE game_id = ? ORDER BY id ASC", gameID)
	return badges, err
}

func (s *GameStore) ListPlayerBadges(ctx context.Context, playerID int64) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.SelectContext(ctx, &badges,
		"SELECT * FROM player_badges WHERE player_id = ? ORDER BY awarded_at ASC, id ASC", playerID)
	return badges, err
}

// FinalizeGame writes the computed result onto the game row and flips its
// status from scheduled to completed. An already-completed row may be
// finalized again: confirm retries after a partial failure re-run the whole
// write sequence, and only the session that completed the game can reach
// this path. Canceled games are rejected.
func (s *GameStore) FinalizeGame(ctx context.Context, params completion.FinalizeParams) error {
	scores, err := json.Marshal(params.UnitScores)
	if err != nil {
		return fmt.Errorf("encode unit scores: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE games SET
			status = ?,
			format_id = ?,
			outcome = ?,
			our_points = ?,
			their_points = ?,
			point_differential = ?,
			our_sets_won = ?,
			their_sets_won = ?,
			unit_scores = ?,
			notes = ?,
			completed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status IN (?, ?)`,
		models.GameCompleted,
		params.FormatID,
		string(params.Outcome),
		params.OurPoints,
		params.TheirPoints,
		params.PointDifferential,
		params.OurSetsWon,
		params.TheirSetsWon,
		string(scores),
		toNullString(params.Notes),
		params.GameID,
		models.GameScheduled,
		models.GameCompleted,
	)
	if err != nil {
		return fmt.Errorf("finalize game %d: %w", params.GameID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotCompletable
	}
	return nil
}

// ReplaceAttendance swaps the game's attendance rows for the given set in a
// single transaction, so readers never observe a half-written roster.
func (s *GameStore) ReplaceAttendance(ctx context.Context, gameID int64, entries []completion.AttendanceEntry) error {
	return s.db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM game_attendance WHERE game_id = ?", gameID); err != nil {
			return fmt.Errorf("clear attendance: %w", err)
		}
		for _, entry := range entries {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO game_attendance (game_id, player_id, status) VALUES (?, ?, ?)",
				gameID, entry.PlayerID, entry.Status); err != nil {
				return fmt.Errorf("insert attendance for player %d: %w", entry.PlayerID, err)
			}
		}
		return nil
	})
}

// InsertBadges appends badge awards. Badges are never updated or deleted, so
// this is a plain batch insert.
func (s *GameStore) InsertBadges(ctx context.Context, gameID int64, entries []completion.BadgeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.RunInTx(ctx, func(tx *sqlx.Tx) error {
		for _, entry := range entries {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO player_badges (player_id, game_id, badge_type, context) VALUES (?, ?, ?, ?)",
				entry.PlayerID, gameID, entry.BadgeType, toNullString(entry.Context)); err != nil {
				return fmt.Errorf("insert badge %s for player %d: %w", entry.BadgeType, entry.PlayerID, err)
			}
		}
		return nil
	})
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
