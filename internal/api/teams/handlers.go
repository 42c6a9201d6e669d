// internal/api/teams/handlers.go
package teams

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldhouse/fieldhouse/internal/api/apiutil"
	"github.com/fieldhouse/fieldhouse/internal/scoring"
	"github.com/fieldhouse/fieldhouse/internal/standings"
	"github.com/fieldhouse/fieldhouse/internal/store"
)

var (
	teamStore *store.TeamStore
	gameStore *store.GameStore
	initOnce  sync.Once
)

const queryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(teams *store.TeamStore, games *store.GameStore) {
	if teams == nil || games == nil {
		return
	}
	initOnce.Do(func() {
		teamStore = teams
		gameStore = games
	})
}

type createTeamRequest struct {
	Name       string `json:"name"`
	Sport      string `json:"sport"`
	Season     string `json:"season"`
	CoachName  string `json:"coachName"`
	CoachEmail string `json:"coachEmail"`
}

// POST /api/v1/teams
func HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if teamStore == nil {
		logger.Error().Msg("Team store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createTeamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Sport = strings.TrimSpace(req.Sport)
	req.Season = strings.TrimSpace(req.Season)
	if req.Name == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(scoring.FormatsForSport(req.Sport)) == 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "unknown sport")
		return
	}
	if req.Season == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "season is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	team, err := teamStore.CreateTeam(ctx, store.CreateTeamParams{
		Name:       req.Name,
		Sport:      req.Sport,
		Season:     req.Season,
		CoachName:  apiutil.ToNullString(strings.TrimSpace(req.CoachName)),
		CoachEmail: apiutil.ToNullString(strings.TrimSpace(req.CoachEmail)),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create team")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusCreated, team)
}

// GET /api/v1/teams
func HandleListTeams(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	teams, err := teamStore.ListTeams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list teams")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, teams)
}

// GET /api/v1/teams/{id}
func HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	teamID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	team, err := teamStore.GetTeam(ctx, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, team)
}

// GET /api/v1/teams/{id}/roster
func HandleListRoster(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	teamID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	if _, err := teamStore.GetTeam(ctx, teamID); errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "team not found")
		return
	} else if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	roster, err := teamStore.ListRoster(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to list roster")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, roster)
}

type addPlayerRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	JerseyNumber  *int64 `json:"jerseyNumber"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

// POST /api/v1/teams/{id}/players
func HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	teamID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req addPlayerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "first and last name are required")
		return
	}

	phone, err := NormalizePhone(req.GuardianPhone)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid guardian phone number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	player, err := teamStore.AddPlayer(ctx, store.AddPlayerParams{
		TeamID:        teamID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		JerseyNumber:  apiutil.ToNullInt64(req.JerseyNumber),
		GuardianName:  apiutil.ToNullString(strings.TrimSpace(req.GuardianName)),
		GuardianPhone: apiutil.ToNullString(phone),
	})
	if apiutil.IsForeignKeyViolation(err) {
		apiutil.WriteError(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to add player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusCreated, player)
}

// DELETE /api/v1/teams/{id}/players/{playerId}
func HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	teamID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	playerID, ok := pathID(w, r, "playerId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	err := teamStore.RemovePlayer(ctx, teamID, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to remove player")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/teams/{id}/record
func HandleTeamRecord(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	teamID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	team, err := teamStore.GetTeam(ctx, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		apiutil.WriteError(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	games, err := gameStore.ListCompletedGames(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to list completed games")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	apiutil.WriteJSON(w, http.StatusOK, standings.Compute(team, games))
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
