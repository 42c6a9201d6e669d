// Package models holds the persisted league entities. Field tags follow the
// sqlx convention; nullable columns use database/sql null types.
package models

import (
	"database/sql"
	"time"
)

type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameCompleted GameStatus = "completed"
	GameCanceled  GameStatus = "canceled"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// ValidAttendanceStatus reports whether s is one of the three recorded states.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	}
	return false
}

type BadgeType string

const (
	BadgeMVP           BadgeType = "mvp"
	BadgeHustle        BadgeType = "hustle"
	BadgeSportsmanship BadgeType = "sportsmanship"
	BadgeMostImproved  BadgeType = "most_improved"
	BadgeTeamPlayer    BadgeType = "team_player"
)

// ValidBadgeType reports whether b is an awardable badge.
func ValidBadgeType(b BadgeType) bool {
	switch b {
	case BadgeMVP, BadgeHustle, BadgeSportsmanship, BadgeMostImproved, BadgeTeamPlayer:
		return true
	}
	return false
}

type Team struct {
	ID         int64          `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Sport      string         `db:"sport" json:"sport"`
	Season     string         `db:"season" json:"season"`
	CoachName  sql.NullString `db:"coach_name" json:"coachName,omitempty"`
	CoachEmail sql.NullString `db:"coach_email" json:"coachEmail,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

type Player struct {
	ID            int64          `db:"id" json:"id"`
	TeamID        int64          `db:"team_id" json:"teamId"`
	FirstName     string         `db:"first_name" json:"firstName"`
	LastName      string         `db:"last_name" json:"lastName"`
	JerseyNumber  sql.NullInt64  `db:"jersey_number" json:"jerseyNumber,omitempty"`
	GuardianName  sql.NullString `db:"guardian_name" json:"guardianName,omitempty"`
	GuardianPhone sql.NullString `db:"guardian_phone" json:"guardianPhone,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// Game is one scheduled or completed game. Result columns are null until the
// completion workflow finalizes the game; UnitScores holds the raw entered
// set/period scores as a JSON array.
type Game struct {
	ID           int64          `db:"id" json:"id"`
	TeamID       int64          `db:"team_id" json:"teamId"`
	OpponentName string         `db:"opponent_name" json:"opponentName"`
	Location     sql.NullString `db:"location" json:"location,omitempty"`
	ScheduledAt  time.Time      `db:"scheduled_at" json:"scheduledAt"`
	Status       GameStatus     `db:"status" json:"status"`

	FormatID          sql.NullString `db:"format_id" json:"formatId,omitempty"`
	Outcome           sql.NullString `db:"outcome" json:"outcome,omitempty"`
	OurPoints         sql.NullInt64  `db:"our_points" json:"ourTotalPoints,omitempty"`
	TheirPoints       sql.NullInt64  `db:"their_points" json:"theirTotalPoints,omitempty"`
	PointDifferential sql.NullInt64  `db:"point_differential" json:"pointDifferential,omitempty"`
	OurSetsWon        sql.NullInt64  `db:"our_sets_won" json:"ourUnitsWon,omitempty"`
	TheirSetsWon      sql.NullInt64  `db:"their_sets_won" json:"theirUnitsWon,omitempty"`
	UnitScores        sql.NullString `db:"unit_scores" json:"-"`
	Notes             sql.NullString `db:"notes" json:"notes,omitempty"`
	CompletedAt       sql.NullTime   `db:"completed_at" json:"completedAt,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Attendance struct {
	GameID    int64            `db:"game_id" json:"gameId"`
	PlayerID  int64            `db:"player_id" json:"playerId"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

type Badge struct {
	ID        int64          `db:"id" json:"id"`
	PlayerID  int64          `db:"player_id" json:"playerId"`
	GameID    int64          `db:"game_id" json:"gameId"`
	BadgeType BadgeType      `db:"badge_type" json:"badgeType"`
	Context   sql.NullString `db:"context" json:"context,omitempty"`
	AwardedAt time.Time      `db:"awarded_at" json:"awardedAt"`
}
