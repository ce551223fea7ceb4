package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/mahjonggame-go/internal/api/middleware"
	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/auth"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
	"github.com/mcoot/mahjonggame-go/internal/services/sweeper"
)

// AdminHandler handles admin endpoints. Routes other than Login sit
// behind the admin middleware.
type AdminHandler struct {
	authService    *auth.Service
	gameController *game.Controller
	scheduler      *sweeper.Scheduler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service, gameController *game.Controller, scheduler *sweeper.Scheduler) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		gameController: gameController,
		scheduler:      scheduler,
	}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Login(req.Secret)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AdminSessionFromSession(session))
}

// Logout handles DELETE /api/v1/admin/session. The shared secret itself
// cannot be logged out, so this only ends session tokens.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.InvalidateSession(middleware.Credential(r))
	response.NoContent(w)
}

// SetHand handles PUT /api/v1/admin/rooms/{id}/hands/{seat}
func (h *AdminHandler) SetHand(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.SetHandRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	seat := model.Seat(mux.Vars(r)["seat"])
	if err := h.gameController.SetHand(r.Context(), id, seat, toTiles(req.Tiles)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ListSweepers handles GET /api/v1/admin/sweepers
func (h *AdminHandler) ListSweepers(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.scheduler.Status())
}

// GetSweeper handles GET /api/v1/admin/sweepers/{name}
func (h *AdminHandler) GetSweeper(w http.ResponseWriter, r *http.Request) {
	sw, err := h.scheduler.Get(mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, sw.Status())
}

// UpdateSweeper handles PUT /api/v1/admin/sweepers/{name}
func (h *AdminHandler) UpdateSweeper(w http.ResponseWriter, r *http.Request) {
	var req request.SweeperRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	interval, err := parseDuration(req.Interval)
	if err != nil {
		WriteError(w, err)
		return
	}
	timeout, err := parseDuration(req.Timeout)
	if err != nil {
		WriteError(w, err)
		return
	}

	status, err := h.scheduler.Reconfigure(mux.Vars(r)["name"], interval, timeout)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// parseDuration treats an empty string as "keep current"
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, NewInvalidRequestError("Invalid duration: " + s)
	}
	if d <= 0 {
		return 0, model.ErrInvalidSchedule
	}
	return d, nil
}
