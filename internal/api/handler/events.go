package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/web/realtime"
)

// EventsHandler subscribes clients to a room's events
type EventsHandler struct {
	registry   *registry.Registry
	hubManager *realtime.HubManager
	logger     *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(registry *registry.Registry, hubManager *realtime.HubManager, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		registry:   registry,
		hubManager: hubManager,
		logger:     logger,
	}
}

// SSE handles GET /api/v1/rooms/{id}/events?player=
func (h *EventsHandler) SSE(w http.ResponseWriter, r *http.Request) {
	hub, seat, ok := h.subscribe(w, r)
	if !ok {
		return
	}
	realtime.ServeSSE(w, r, hub, seat)
}

// WebSocket handles GET /api/v1/rooms/{id}/ws?player=
func (h *EventsHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	hub, seat, ok := h.subscribe(w, r)
	if !ok {
		return
	}
	realtime.ServeWS(w, r, hub, seat, h.logger)
}

func (h *EventsHandler) subscribe(w http.ResponseWriter, r *http.Request) (*realtime.Hub, model.Seat, bool) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return nil, "", false
	}
	if !h.registry.Exists(id) {
		WriteError(w, model.ErrRoomNotFound)
		return nil, "", false
	}
	return h.hubManager.GetOrCreateHub(id), model.Seat(r.URL.Query().Get("player")), true
}
