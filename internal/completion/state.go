// Package completion drives the game-day completion wizard: a five stage
// linear flow (format, score, attendance, badges, confirm) whose terminal
// action converts in-memory state into the persistence writes that mark a
// game completed. All scoring math is delegated to internal/scoring.
package completion

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
)

// Stage is the wizard position. Transitions are strictly linear and happen
// only through Advance and Back, so a skipped stage is unrepresentable.
type Stage int

const (
	StageFormat Stage = iota
	StageScore
	StageAttendance
	StageBadges
	StageConfirm
)

var stageNames = map[Stage]string{
	StageFormat:     "format",
	StageScore:      "score",
	StageAttendance: "attendance",
	StageBadges:     "badges",
	StageConfirm:    "confirm",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

var (
	ErrNoFormat       = errors.New("no scoring format selected")
	ErrWrongSport     = errors.New("format is for a different sport")
	ErrUnitOutOfRange = errors.New("unit index out of range")
	ErrNotOnRoster    = errors.New("player is not on the roster")
	ErrInvalidStatus  = errors.New("invalid attendance status")
	ErrInvalidBadge   = errors.New("invalid badge type")
	ErrNotDecided     = errors.New("match result is not decided")
	ErrDeadlocked     = errors.New("format cannot produce a result for a tied game")
	ErrSaving         = errors.New("completion is being saved")
)

// WrongStageError reports an operation attempted outside its wizard stage.
type WrongStageError struct {
	Op   string
	Want Stage
	Got  Stage
}

func (e WrongStageError) Error() string {
	return fmt.Sprintf("%s is only allowed during the %s stage (currently %s)", e.Op, e.Want, e.Got)
}

// GameContext is the immutable game information supplied at workflow entry.
type GameContext struct {
	GameID       int64
	TeamID       int64
	Sport        string
	OpponentName string
	Roster       []models.Player
}

type badgeKey struct {
	PlayerID  int64
	BadgeType models.BadgeType
}

// State is one in-flight completion wizard. It is purely in-memory: cancel
// discards it, confirm consumes it. State is not safe for concurrent use;
// the Manager serializes access.
type State struct {
	Game   GameContext
	Stage  Stage
	Format *scoring.Format
	Scores []scoring.UnitScore

	attendance map[int64]models.AttendanceStatus
	badges     map[badgeKey]struct{}
	Notes      string

	saving    bool
	StartedAt time.Time
	UpdatedAt time.Time
}

// NewState opens a wizard for a scheduled game. Every rostered player starts
// as present; attendance is adjusted during the attendance stage.
func NewState(game GameContext) *State {
	attendance := make(map[int64]models.AttendanceStatus, len(game.Roster))
	for _, p := range game.Roster {
		attendance[p.ID] = models.AttendancePresent
	}
	now := time.Now().UTC()
	return &State{
		Game:       game,
		Stage:      StageFormat,
		attendance: attendance,
		badges:     make(map[badgeKey]struct{}),
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *State) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// SelectFormat picks a catalog format for the game's sport. Re-selecting
// resets any entered scores, since targets and unit counts differ per format.
func (s *State) SelectFormat(formatID string) error {
	if s.Stage != StageFormat {
		return WrongStageError{Op: "format selection", Want: StageFormat, Got: s.Stage}
	}
	format, err := scoring.FormatByID(formatID)
	if err != nil {
		return err
	}
	if format.Sport != s.Game.Sport {
		return fmt.Errorf("%w: %q is for %s, not %s", ErrWrongSport, formatID, format.Sport, s.Game.Sport)
	}

	s.Format = &format
	s.Scores = nil
	s.touch()
	return nil
}

// Advance moves one stage forward. Leaving the format stage requires a
// selected format; every later stage is always reachable from its
// predecessor because the completion gate lives on Complete, not here.
func (s *State) Advance() error {
	if s.saving {
		return ErrSaving
	}
	if s.Stage == StageConfirm {
		return fmt.Errorf("already at the %s stage", StageConfirm)
	}
	if s.Stage == StageFormat && s.Format == nil {
		return ErrNoFormat
	}
	s.Stage++
	s.touch()
	return nil
}

// Back moves one stage backward.
func (s *State) Back() error {
	if s.saving {
		return ErrSaving
	}
	if s.Stage == StageFormat {
		return fmt.Errorf("already at the %s stage", StageFormat)
	}
	s.Stage--
	s.touch()
	return nil
}

// editableUnits reports how many unit slots may currently be written. A
// slot exists only once its period has been entered, so for period formats
// the next unentered regulation period is always open; past regulation,
// only overtime slots appended by the aggregator are writable.
func (s *State) editableUnits() int {
	if s.Format == nil {
		return 0
	}
	if s.Format.Kind == scoring.KindSet {
		return scoring.VisibleSets(*s.Format, s.Scores)
	}
	if len(s.Scores) < s.Format.Period.Periods {
		return len(s.Scores) + 1
	}
	return len(s.Scores)
}

// SetUnitScore records the running score for one zero-based unit. Negative
// values are floored at zero, matching the decrement-floor behavior of the
// score entry UI. For set formats the slot list grows as sets complete; for
// period formats slots are entered in order and the list grows with them,
// so the slot count always equals the entered-period count. A tie once all
// regulation periods are entered appends exactly one pending overtime slot.
func (s *State) SetUnitScore(unit, our, their int) error {
	if s.saving {
		return ErrSaving
	}
	if s.Stage != StageScore {
		return WrongStageError{Op: "score entry", Want: StageScore, Got: s.Stage}
	}
	if s.Format == nil {
		return ErrNoFormat
	}
	if unit < 0 || unit >= s.editableUnits() {
		return fmt.Errorf("%w: unit %d of %d", ErrUnitOutOfRange, unit+1, s.editableUnits())
	}
	if our < 0 {
		our = 0
	}
	if their < 0 {
		their = 0
	}

	for len(s.Scores) <= unit {
		s.Scores = append(s.Scores, scoring.UnitScore{})
	}
	s.Scores[unit] = scoring.UnitScore{Our: our, Their: their}

	if scoring.NeedsOvertime(*s.Format, s.Scores) {
		s.Scores = append(s.Scores, scoring.UnitScore{})
	}
	s.touch()
	return nil
}

// SetAttendance records a player's status. Only rostered players, only the
// three known statuses, only during the attendance stage.
func (s *State) SetAttendance(playerID int64, status models.AttendanceStatus) error {
	if s.saving {
		return ErrSaving
	}
	if s.Stage != StageAttendance {
		return WrongStageError{Op: "attendance", Want: StageAttendance, Got: s.Stage}
	}
	if _, ok := s.attendance[playerID]; !ok {
		return fmt.Errorf("%w: player %d", ErrNotOnRoster, playerID)
	}
	if !models.ValidAttendanceStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	s.attendance[playerID] = status
	s.touch()
	return nil
}

// ToggleBadge flips a badge award for a player. Toggling twice is a no-op,
// which makes repeated taps idempotent.
func (s *State) ToggleBadge(playerID int64, badge models.BadgeType) (awarded bool, err error) {
	if s.saving {
		return false, ErrSaving
	}
	if s.Stage != StageBadges {
		return false, WrongStageError{Op: "badge award", Want: StageBadges, Got: s.Stage}
	}
	if _, ok := s.attendance[playerID]; !ok {
		return false, fmt.Errorf("%w: player %d", ErrNotOnRoster, playerID)
	}
	if !models.ValidBadgeType(badge) {
		return false, fmt.Errorf("%w: %q", ErrInvalidBadge, badge)
	}

	key := badgeKey{PlayerID: playerID, BadgeType: badge}
	if _, ok := s.badges[key]; ok {
		delete(s.badges, key)
	} else {
		s.badges[key] = struct{}{}
		awarded = true
	}
	s.touch()
	return awarded, nil
}

// SetNotes replaces the free-text game notes.
func (s *State) SetNotes(notes string) error {
	if s.saving {
		return ErrSaving
	}
	s.Notes = notes
	s.touch()
	return nil
}

// Result derives the current match result. With no format selected it is the
// zero in-progress result.
func (s *State) Result() scoring.MatchResult {
	if s.Format == nil {
		return scoring.MatchResult{Outcome: scoring.OutcomeInProgress}
	}
	return scoring.Evaluate(*s.Format, s.Scores)
}

// CanComplete reports whether the terminal complete action is enabled, and
// when it is not, why: separate reasons for "keep entering scores" and "this
// format cannot resolve a tie".
func (s *State) CanComplete() (bool, error) {
	if s.Format == nil {
		return false, ErrNoFormat
	}
	if s.Format.Kind == scoring.KindSet && s.Format.Set.NoMatchWinner {
		return true, nil
	}
	result := s.Result()
	switch result.Outcome {
	case scoring.OutcomeWin, scoring.OutcomeLoss, scoring.OutcomeTie, scoring.OutcomeNone:
		return true, nil
	}
	if result.Deadlocked {
		return false, ErrDeadlocked
	}
	return false, ErrNotDecided
}

// AttendanceEntries returns the attendance snapshot in roster order.
func (s *State) AttendanceEntries() []AttendanceEntry {
	entries := make([]AttendanceEntry, 0, len(s.attendance))
	for _, p := range s.Game.Roster {
		if status, ok := s.attendance[p.ID]; ok {
			entries = append(entries, AttendanceEntry{PlayerID: p.ID, Status: status})
		}
	}
	return entries
}

// BadgeEntries returns the awarded badges in a deterministic order.
func (s *State) BadgeEntries() []BadgeEntry {
	entries := make([]BadgeEntry, 0, len(s.badges))
	for key := range s.badges {
		entries = append(entries, BadgeEntry{PlayerID: key.PlayerID, BadgeType: key.BadgeType})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PlayerID != entries[j].PlayerID {
			return entries[i].PlayerID < entries[j].PlayerID
		}
		return entries[i].BadgeType < entries[j].BadgeType
	})
	return entries
}
