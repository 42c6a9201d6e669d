// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldhouse/fieldhouse/internal/api"
	completionapi "github.com/fieldhouse/fieldhouse/internal/api/completion"
	"github.com/fieldhouse/fieldhouse/internal/api/games"
	"github.com/fieldhouse/fieldhouse/internal/api/teams"
	"github.com/fieldhouse/fieldhouse/internal/completion"
	"github.com/fieldhouse/fieldhouse/internal/config"
	"github.com/fieldhouse/fieldhouse/internal/db"
	"github.com/fieldhouse/fieldhouse/internal/email"
	"github.com/fieldhouse/fieldhouse/internal/ratelimit"
	"github.com/fieldhouse/fieldhouse/internal/scheduler"
	"github.com/fieldhouse/fieldhouse/internal/store"
)

func newServer(cfg *config.Config) (*http.Server, func(), error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	teamStore := store.NewTeamStore(database)
	gameStore := store.NewGameStore(database)
	manager := completion.NewManager()

	var notifier *email.ResultNotifier
	if cfg.Email.Enabled {
		sender, err := email.NewSESClient(
			cfg.Email.AccessKeyID,
			cfg.Email.SecretAccessKey,
			cfg.Email.Region,
			cfg.Email.Sender,
		)
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("init ses client: %w", err)
		}
		notifier = email.NewResultNotifier(sender, teamStore, gameStore)
	} else {
		log.Info().Msg("Email notifications disabled")
	}

	teams.InitHandlers(teamStore, gameStore)
	games.InitHandlers(gameStore)
	completionapi.InitHandlers(manager, teamStore, gameStore, notifier)

	if err := scheduler.Init(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("init scheduler: %w", err)
	}
	svc, err := scheduler.ServiceInstance()
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	ttl := time.Duration(cfg.Completion.SessionTTLMinutes) * time.Minute
	if err := svc.RegisterCompletionSweep(manager, ttl); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("register sweep job: %w", err)
	}
	svc.Start()

	limiter := ratelimit.New(&ratelimit.Config{WritesPerMinute: cfg.RateLimit.WritesPerMinute})

	router := http.NewServeMux()
	registerRoutes(router)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithWriteLimit(limiter, cfg.RateLimit.TrustProxy),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	cleanup := func() {
		limiter.Close()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, cleanup, nil
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Team and roster routes
	mux.HandleFunc("POST /api/v1/teams", teams.HandleCreateTeam)
	mux.HandleFunc("GET /api/v1/teams", teams.HandleListTeams)
	mux.HandleFunc("GET /api/v1/teams/{id}", teams.HandleGetTeam)
	mux.HandleFunc("GET /api/v1/teams/{id}/roster", teams.HandleListRoster)
	mux.HandleFunc("POST /api/v1/teams/{id}/players", teams.HandleAddPlayer)
	mux.HandleFunc("DELETE /api/v1/teams/{id}/players/{playerId}", teams.HandleRemovePlayer)
	mux.HandleFunc("GET /api/v1/teams/{id}/record", teams.HandleTeamRecord)

	// Game routes
	mux.HandleFunc("POST /api/v1/games", games.HandleCreateGame)
	mux.HandleFunc("GET /api/v1/games", games.HandleListGames)
	mux.HandleFunc("GET /api/v1/games/{id}", games.HandleGetGame)
	mux.HandleFunc("POST /api/v1/games/{id}/cancel", games.HandleCancelGame)
	mux.HandleFunc("GET /api/v1/formats", games.HandleListFormats)

	// Completion wizard routes
	mux.HandleFunc("POST /api/v1/games/{id}/completion", completionapi.HandleStart)
	mux.HandleFunc("GET /api/v1/games/{id}/completion", completionapi.HandleGetSession)
	mux.HandleFunc("DELETE /api/v1/games/{id}/completion", completionapi.HandleCancel)
	mux.HandleFunc("POST /api/v1/games/{id}/completion/advance", completionapi.HandleAdvance)
	mux.HandleFunc("POST /api/v1/games/{id}/completion/back", completionapi.HandleBack)
	mux.HandleFunc("PUT /api/v1/games/{id}/completion/format", completionapi.HandleSelectFormat)
	mux.HandleFunc("PUT /api/v1/games/{id}/completion/scores/{unit}", completionapi.HandleSetScore)
	mux.HandleFunc("PUT /api/v1/games/{id}/completion/attendance/{playerId}", completionapi.HandleSetAttendance)
	mux.HandleFunc("POST /api/v1/games/{id}/completion/badges", completionapi.HandleToggleBadge)
	mux.HandleFunc("PUT /api/v1/games/{id}/completion/notes", completionapi.HandleSetNotes)
	mux.HandleFunc("POST /api/v1/games/{id}/completion/confirm", completionapi.HandleConfirm)
}
