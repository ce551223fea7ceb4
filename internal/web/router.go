package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/web/handler"
	"github.com/mcoot/mahjonggame-go/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger    *slog.Logger
	Registry  *registry.Registry
	StaticDir string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the web pages on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	seatMiddleware := middleware.Seat()

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.Registry)
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(recoveryMiddleware)
	pages.Use(loggingMiddleware)
	pages.Use(flashMiddleware)
	pages.Use(seatMiddleware)

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	pages.HandleFunc("/rooms/{id}", roomHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/rooms/{id}/join", roomHandler.Join).Methods(http.MethodPost)
	pages.HandleFunc("/rooms/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)
}
