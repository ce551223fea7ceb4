package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mahjonggame-go/internal/api/handler"
	"github.com/mcoot/mahjonggame-go/internal/api/middleware"
	"github.com/mcoot/mahjonggame-go/internal/services/auth"
	"github.com/mcoot/mahjonggame-go/internal/services/bot"
	"github.com/mcoot/mahjonggame-go/internal/services/claim"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/services/sweeper"
	"github.com/mcoot/mahjonggame-go/internal/web/realtime"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Registry       *registry.Registry
	GameController *game.Controller
	ClaimResolver  *claim.Resolver
	AuthService    *auth.Service
	BotService     *bot.Service
	Scheduler      *sweeper.Scheduler
	HubManager     *realtime.HubManager
	// History serves the event log. Nil when Redis is not configured.
	History handler.HistorySource
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the API routes under /api/v1 on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.History)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	claimHandler := handler.NewClaimHandler(cfg.ClaimResolver)
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.GameController, cfg.Scheduler)
	botHandler := handler.NewBotHandler(cfg.BotService)
	eventsHandler := handler.NewEventsHandler(cfg.Registry, cfg.HubManager, cfg.Logger)

	// Create middleware
	adminMiddleware := middleware.Admin(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Room routes
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}", gameHandler.State).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/history", roomHandler.History).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/bots", botHandler.Add).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/bots/{seat}", botHandler.Remove).Methods(http.MethodDelete)

	// Turn routes
	rooms.HandleFunc("/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/draw", gameHandler.Draw).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/discard", gameHandler.Discard).Methods(http.MethodPost)

	// Claim window routes
	rooms.HandleFunc("/{id}/claim", claimHandler.Claim).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/pass", claimHandler.Pass).Methods(http.MethodPost)

	// Event streams
	rooms.HandleFunc("/{id}/events", eventsHandler.SSE).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/ws", eventsHandler.WebSocket).Methods(http.MethodGet)

	api.HandleFunc("/check_win", gameHandler.CheckWin).Methods(http.MethodPost)

	// Admin login is open, everything else needs a credential
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/session", adminHandler.Logout).Methods(http.MethodDelete)
	admin.HandleFunc("/rooms/{id}/hands/{seat}", adminHandler.SetHand).Methods(http.MethodPut)
	admin.HandleFunc("/sweepers", adminHandler.ListSweepers).Methods(http.MethodGet)
	admin.HandleFunc("/sweepers/{name}", adminHandler.GetSweeper).Methods(http.MethodGet)
	admin.HandleFunc("/sweepers/{name}", adminHandler.UpdateSweeper).Methods(http.MethodPut)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
