// internal/api/games/handlers.go
package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldhouse/fieldhouse/internal/api/apiutil"
	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
	"github.com/fieldhouse/fieldhouse/internal/store"
)

var (
	gameStore *store.GameStore
	initOnce  sync.Once
)

const queryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(games *store.GameStore) {
	if games == nil {
		return
	}
	initOnce.Do(func() {
		gameStore = games
	})
}

type createGameRequest struct {
	TeamID       int64  `json:"teamId"`
	OpponentName string `json:"opponentName"`
	Location     string `json:"location"`
	ScheduledAt  string `json:"scheduledAt"`
}

// POST /api/v1/games
func HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if gameStore == nil {
		logger.Error().Msg("Game store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createGameRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OpponentName = strings.TrimSpace(req.OpponentName)
	if req.TeamID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "teamId is required")
		return
	}
	if req.OpponentName == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "opponentName is required")
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "scheduledAt must be RFC 3339")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	game, err := gameStore.CreateGame(ctx, store.CreateGameParams{
		TeamID:       req.TeamID,
		OpponentName: req.OpponentName,
		Location:     apiutil.ToNullString(strings.TrimSpace(req.Location)),
		ScheduledAt:  scheduledAt.UTC(),
	})
	if apiutil.IsForeignKeyViolation(err) {
		apiutil.WriteError(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("team_id", req.TeamID).Msg("Failed to create game")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusCreated, game)
}

// GET /api/v1/games?team_id=N
func HandleListGames(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, err := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if err != nil || teamID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "team_id query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	games, err := gameStore.ListGamesByTeam(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to list games")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, games)
}

// gameDetail is the game row joined with its recorded attendance and badges.
type gameDetail struct {
	*models.Game
	UnitScores []scoring.UnitScore `json:"unitScores,omitempty"`
	Attendance []models.Attendance `json:"attendance,omitempty"`
	Badges     []models.Badge      `json:"badges,omitempty"`
}

// GET /api/v1/games/{id}
func HandleGetGame(w http.ResponseWriter, r *http.Request) {
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

	detail := gameDetail{Game: game}
	if game.Status == models.GameCompleted {
		if scores, err := decodeUnitScores(game.UnitScores); err == nil {
			detail.UnitScores = scores
		} else {
			logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to decode stored unit scores")
		}
		if detail.Attendance, err = gameStore.ListAttendance(ctx, gameID); err != nil {
			logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to list attendance")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if detail.Badges, err = gameStore.ListBadges(ctx, gameID); err != nil {
			logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to list badges")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	apiutil.WriteJSON(w, http.StatusOK, detail)
}

// POST /api/v1/games/{id}/cancel
func HandleCancelGame(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	gameID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	err := gameStore.CancelGame(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusConflict, "game is not in a cancelable state")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to cancel game")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/formats?sport=volleyball
func HandleListFormats(w http.ResponseWriter, r *http.Request) {
	sport := strings.TrimSpace(r.URL.Query().Get("sport"))
	if sport == "" {
		apiutil.WriteJSON(w, http.StatusOK, map[string]any{"sports": scoring.Sports()})
		return
	}

	formats := scoring.FormatsForSport(sport)
	if len(formats) == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "unknown sport")
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, formats)
}

func decodeUnitScores(raw sql.NullString) ([]scoring.UnitScore, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var scores []scoring.UnitScore
	if err := json.Unmarshal([]byte(raw.String), &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
