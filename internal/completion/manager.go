package completion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldhouse/fieldhouse/internal/scoring"
)

var (
	ErrNoSession     = errors.New("no active completion session for game")
	ErrActiveSession = errors.New("completion session already active for game")
)

// Manager owns the in-flight completion sessions, at most one per game. The
// mutex exists because the HTTP layer is concurrent; each session itself is
// single-user by convention.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*State
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*State)}
}

// View is the JSON snapshot of a session the wizard renders from. It is
// rebuilt on every request; nothing in it is authoritative except by
// derivation from the State.
type View struct {
	GameID       int64                `json:"gameId"`
	OpponentName string               `json:"opponentName"`
	Sport        string               `json:"sport"`
	Stage        string               `json:"stage"`
	Format       *scoring.Format      `json:"format,omitempty"`
	Scores       []scoring.UnitScore  `json:"unitScores"`
	VisibleUnits int                  `json:"visibleUnits"`
	Result       scoring.MatchResult  `json:"result"`
	Attendance   []AttendanceEntry    `json:"attendance"`
	Badges       []BadgeEntry         `json:"badges"`
	Notes        string               `json:"notes,omitempty"`
	CanComplete  bool                 `json:"canComplete"`
	BlockReason  string               `json:"blockReason,omitempty"`
}

func newView(s *State) *View {
	view := &View{
		GameID:       s.Game.GameID,
		OpponentName: s.Game.OpponentName,
		Sport:        s.Game.Sport,
		Stage:        s.Stage.String(),
		Format:       s.Format,
		Scores:       append([]scoring.UnitScore{}, s.Scores...),
		Result:       s.Result(),
		Attendance:   s.AttendanceEntries(),
		Badges:       s.BadgeEntries(),
		Notes:        s.Notes,
	}
	view.VisibleUnits = s.editableUnits()
	ok, reason := s.CanComplete()
	view.CanComplete = ok
	if !ok && reason != nil {
		view.BlockReason = reason.Error()
	}
	return view
}

// Start opens a session for a game. A second start while one is active for
// the same game is rejected rather than silently replacing entered data.
func (m *Manager) Start(game GameContext) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[game.GameID]; ok {
		return nil, fmt.Errorf("%w %d", ErrActiveSession, game.GameID)
	}
	state := NewState(game)
	m.sessions[game.GameID] = state
	return newView(state), nil
}

// View returns the current snapshot for a game's session.
func (m *Manager) View(gameID int64) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoSession, gameID)
	}
	return newView(state), nil
}

// Update applies a mutation to a game's session under the manager lock and
// returns the refreshed snapshot.
func (m *Manager) Update(gameID int64, fn func(*State) error) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoSession, gameID)
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	return newView(state), nil
}

// Cancel discards a session with no persisted effect.
func (m *Manager) Cancel(gameID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[gameID]; !ok {
		return fmt.Errorf("%w %d", ErrNoSession, gameID)
	}
	delete(m.sessions, gameID)
	return nil
}

// Confirm runs the three sequential persistence writes for a session and, on
// full success, destroys it. The writes are not held under the manager lock;
// the session is marked saving so concurrent edits are rejected while the
// sequence runs. A failed step stops the sequence, leaves the session alive,
// and is reported as a StepError so the caller can say exactly what was and
// was not written. There is no rollback of earlier steps.
func (m *Manager) Confirm(ctx context.Context, gameID int64, gw Gateway) (*FinalizeParams, error) {
	m.mu.Lock()
	state, ok := m.sessions[gameID]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w %d", ErrNoSession, gameID)
	}
	if state.saving {
		m.mu.Unlock()
		return nil, ErrSaving
	}
	if state.Stage != StageConfirm {
		m.mu.Unlock()
		return nil, WrongStageError{Op: "confirm", Want: StageConfirm, Got: state.Stage}
	}
	if ok, reason := state.CanComplete(); !ok {
		m.mu.Unlock()
		return nil, reason
	}

	result := state.Result()
	params := FinalizeParams{
		GameID:            gameID,
		FormatID:          state.Format.ID,
		Outcome:           result.Outcome,
		OurPoints:         result.OurPoints,
		TheirPoints:       result.TheirPoints,
		PointDifferential: result.PointDifferential,
		OurSetsWon:        result.OurSetsWon,
		TheirSetsWon:      result.TheirSetsWon,
		UnitScores:        append([]scoring.UnitScore{}, state.Scores...),
		Notes:             state.Notes,
	}
	attendance := state.AttendanceEntries()
	badges := state.BadgeEntries()
	state.saving = true
	m.mu.Unlock()

	release := func() {
		m.mu.Lock()
		state.saving = false
		m.mu.Unlock()
	}

	if err := gw.FinalizeGame(ctx, params); err != nil {
		release()
		return nil, StepError{Step: StepFinalize, Err: err}
	}
	if err := gw.ReplaceAttendance(ctx, gameID, attendance); err != nil {
		release()
		return nil, StepError{Step: StepAttendance, Err: err}
	}
	if err := gw.InsertBadges(ctx, gameID, badges); err != nil {
		release()
		return nil, StepError{Step: StepBadges, Err: err}
	}

	m.mu.Lock()
	delete(m.sessions, gameID)
	m.mu.Unlock()
	return &params, nil
}

// Sweep discards sessions idle longer than ttl and returns how many were
// removed. Saving sessions are never swept.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for gameID, state := range m.sessions {
		if state.saving || state.UpdatedAt.After(cutoff) {
			continue
		}
		delete(m.sessions, gameID)
		removed++
	}
	if removed > 0 {
		log.Info().Int("sessions", removed).Msg("Swept stale completion sessions")
	}
	return removed
}
