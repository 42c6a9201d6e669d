package completion

import (
	"context"
	"fmt"

	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
)

// Step labels one of the three sequential persistence writes.
type Step string

const (
	StepFinalize   Step = "finalize"
	StepAttendance Step = "attendance"
	StepBadges     Step = "badges"
)

// StepError reports which of the sequential writes failed. Writes before the
// failing step have already been applied and are not rolled back; the caller
// surfaces this as a partial failure.
type StepError struct {
	Step Step
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("completion write failed at %s step: %v", e.Step, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}

// FinalizeParams is the finalize write: result fields plus the raw unit
// score array, applied to the game record together with the status flip.
type FinalizeParams struct {
	GameID            int64
	FormatID          string
	Outcome           scoring.Outcome
	OurPoints         int
	TheirPoints       int
	PointDifferential int
	OurSetsWon        int
	TheirSetsWon      int
	UnitScores        []scoring.UnitScore
	Notes             string
}

// AttendanceEntry is one row of the full-replacement attendance write.
type AttendanceEntry struct {
	PlayerID int64                   `json:"playerId"`
	Status   models.AttendanceStatus `json:"status"`
}

// BadgeEntry is one append-only badge award row.
type BadgeEntry struct {
	PlayerID  int64            `json:"playerId"`
	BadgeType models.BadgeType `json:"badgeType"`
	Context   string           `json:"context,omitempty"`
}

// Gateway is the persistence boundary the confirm action writes through.
// The workflow sequences the three calls; the gateway does not coordinate
// transactionality across them.
type Gateway interface {
	FinalizeGame(ctx context.Context, params FinalizeParams) error
	ReplaceAttendance(ctx context.Context, gameID int64, entries []AttendanceEntry) error
	InsertBadges(ctx context.Context, gameID int64, entries []BadgeEntry) error
}
