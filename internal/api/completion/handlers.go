// internal/api/completion/handlers.go
package completion

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldhouse/fieldhouse/internal/api/apiutil"
	"github.com/fieldhouse/fieldhouse/internal/completion"
	"github.com/fieldhouse/fieldhouse/internal/email"
	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
	"github.com/fieldhouse/fieldhouse/internal/store"
)

var (
	manager   *completion.Manager
	teamStore *store.TeamStore
	gameStore *store.GameStore
	notifier  *email.ResultNotifier
	initOnce  sync.Once
)

const queryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
// The notifier may be nil when email is disabled.
func InitHandlers(mgr *completion.Manager, teams *store.TeamStore, games *store.GameStore, n *email.ResultNotifier) {
	if mgr == nil || teams == nil || games == nil {
		return
	}
	initOnce.Do(func() {
		manager = mgr
		teamStore = teams
		gameStore = games
		notifier = n
	})
}

// POST /api/v1/games/{id}/completion
func HandleStart(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	gameID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	game, err := gameStore.GetGame(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to load game")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if game.Status != models.GameScheduled {
		apiutil.WriteError(w, http.StatusConflict, "game is not in a completable state")
		return
	}

	team, err := teamStore.GetTeam(ctx, game.TeamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", game.TeamID).Msg("Failed to load team")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	roster, err := teamStore.ListRoster(ctx, game.TeamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", game.TeamID).Msg("Failed to load roster")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view, err := manager.Start(completion.GameContext{
		GameID:       game.ID,
		TeamID:       team.ID,
		Sport:        team.Sport,
		OpponentName: game.OpponentName,
		Roster:       roster,
	})
	if errors.Is(err, completion.ErrActiveSession) {
		apiutil.WriteError(w, http.StatusConflict, "a completion session is already active for this game")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to start completion session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusCreated, view)
}

// GET /api/v1/games/{id}/completion
func HandleGetSession(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := manager.View(gameID)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, view)
}

// POST /api/v1/games/{id}/completion/advance
func HandleAdvance(w http.ResponseWriter, r *http.Request) {
	updateSession(w, r, func(s *completion.State) error { return s.Advance() })
}

// POST /api/v1/games/{id}/completion/back
func HandleBack(w http.ResponseWriter, r *http.Request) {
	updateSession(w, r, func(s *completion.State) error { return s.Back() })
}

type selectFormatRequest struct {
	FormatID string `json:"formatId"`
}

// PUT /api/v1/games/{id}/completion/format
func HandleSelectFormat(w http.ResponseWriter, r *http.Request) {
	var req selectFormatRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updateSession(w, r, func(s *completion.State) error { return s.SelectFormat(req.FormatID) })
}

type setScoreRequest struct {
	Our   int `json:"our"`
	Their int `json:"their"`
}

// PUT /api/v1/games/{id}/completion/scores/{unit}
func HandleSetScore(w http.ResponseWriter, r *http.Request) {
	unit, err := strconv.Atoi(r.PathValue("unit"))
	if err != nil || unit < 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid unit")
		return
	}
	var req setScoreRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updateSession(w, r, func(s *completion.State) error {
		return s.SetUnitScore(unit, req.Our, req.Their)
	})
}

type setAttendanceRequest struct {
	Status models.AttendanceStatus `json:"status"`
}

// PUT /api/v1/games/{id}/completion/attendance/{playerId}
func HandleSetAttendance(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(w, r, "playerId")
	if !ok {
		return
	}
	var req setAttendanceRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updateSession(w, r, func(s *completion.State) error {
		return s.SetAttendance(playerID, req.Status)
	})
}

type toggleBadgeRequest struct {
	PlayerID  int64            `json:"playerId"`
	BadgeType models.BadgeType `json:"badgeType"`
}

// POST /api/v1/games/{id}/completion/badges
func HandleToggleBadge(w http.ResponseWriter, r *http.Request) {
	var req toggleBadgeRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updateSession(w, r, func(s *completion.State) error {
		_, err := s.ToggleBadge(req.PlayerID, req.BadgeType)
		return err
	})
}

type setNotesRequest struct {
	Notes string `json:"notes"`
}

// PUT /api/v1/games/{id}/completion/notes
func HandleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req setNotesRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updateSession(w, r, func(s *completion.State) error { return s.SetNotes(req.Notes) })
}

// POST /api/v1/games/{id}/completion/confirm
func HandleConfirm(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	gameID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	params, err := manager.Confirm(r.Context(), gameID, gameStore)
	if err != nil {
		var stepErr completion.StepError
		if errors.As(err, &stepErr) {
			logger.Error().Err(stepErr.Err).
				Int64("game_id", gameID).
				Str("step", string(stepErr.Step)).
				Msg("Completion persistence failed mid-sequence")
			apiutil.WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"error":      "saving the game result failed",
				"failedStep": string(stepErr.Step),
			})
			return
		}
		writeSessionError(w, r, err)
		return
	}

	logger.Info().
		Int64("game_id", gameID).
		Str("outcome", string(params.Outcome)).
		Msg("Game completed")

	if notifier != nil {
		go notifier.NotifyGameCompleted(context.Background(), gameID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	game, err := gameStore.GetGame(ctx, gameID)
	if err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to reload completed game")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, game)
}

// DELETE /api/v1/games/{id}/completion
func HandleCancel(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := manager.Cancel(gameID); err != nil {
		writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func updateSession(w http.ResponseWriter, r *http.Request, fn func(*completion.State) error) {
	gameID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := manager.Update(gameID, fn)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, view)
}

// writeSessionError maps workflow errors onto HTTP statuses. Validation
// failures are 400s; ordering and lifecycle violations are 409s.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	var wrongStage completion.WrongStageError
	switch {
	case errors.Is(err, completion.ErrNoSession):
		apiutil.WriteError(w, http.StatusNotFound, "no active completion session")
	case errors.As(err, &wrongStage):
		apiutil.WriteError(w, http.StatusConflict, wrongStage.Error())
	case errors.Is(err, completion.ErrSaving):
		apiutil.WriteError(w, http.StatusConflict, "the session is being saved")
	case errors.Is(err, completion.ErrNotDecided),
		errors.Is(err, completion.ErrDeadlocked):
		apiutil.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, completion.ErrNoFormat),
		errors.Is(err, completion.ErrWrongSport),
		errors.Is(err, scoring.ErrUnknownFormat),
		errors.Is(err, completion.ErrUnitOutOfRange),
		errors.Is(err, completion.ErrNotOnRoster),
		errors.Is(err, completion.ErrInvalidStatus),
		errors.Is(err, completion.ErrInvalidBadge):
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Completion session error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
