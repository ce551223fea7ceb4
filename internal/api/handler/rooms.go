package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mcoot/mahjonggame-go/internal/api/apierr"
	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
)

// HistorySource returns a room's recent events
type HistorySource interface {
	History(ctx context.Context, id model.RoomID, limit int64) ([]json.RawMessage, error)
}

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	registry *registry.Registry
	history  HistorySource
}

// NewRoomHandler creates a new room handler. history may be nil.
func NewRoomHandler(registry *registry.Registry, history HistorySource) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		history:  history,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.registry.Create(r.Context(), model.Seat(req.Player), req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromView(view))
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.SeatRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.registry.Join(r.Context(), id, model.Seat(req.Player))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromView(view))
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.SeatRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.registry.Leave(r.Context(), id, model.Seat(req.Player))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromView(view))
}

// History handles GET /api/v1/rooms/{id}/history?limit=
func (h *RoomHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		WriteError(w, apierr.NewUnavailableError("Event history requires Redis"))
		return
	}
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var limit int64
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.ParseInt(s, 10, 64)
		if err != nil || limit < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
	}

	events, err := h.history.History(r.Context(), id, limit)
	if err != nil {
		WriteError(w, apierr.NewUnavailableError("Event history is unavailable"))
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryResponse{Events: events})
}
