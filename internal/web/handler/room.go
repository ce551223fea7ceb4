package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/web/middleware"
	"github.com/mcoot/mahjonggame-go/internal/web/views"
)

// RoomHandler handles room pages and seat actions
type RoomHandler struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(registry *registry.Registry, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		logger:   logger,
	}
}

// View renders a room for the acting seat
func (h *RoomHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseRoomID(mux.Vars(r)["id"])
	if err != nil {
		h.notFound(w, r)
		return
	}

	view, err := h.registry.Get(r.Context(), id, middleware.GetSeat(r.Context()))
	if err != nil {
		h.notFound(w, r)
		return
	}

	data := views.RoomData{
		PageData: pageData(r, "Room "+id.String()),
		Room:     view,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Room(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles room creation from the home page form
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	maxPlayers := 0 // default
	if s := r.FormValue("max_players"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			maxPlayers = parsed
		}
	}

	seat := model.Seat(r.FormValue("player"))
	view, err := h.registry.Create(r.Context(), seat, maxPlayers)
	if err != nil {
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.RememberSeat(w, view.Viewer)
	middleware.SetFlash(w, "success", "Room created!")
	http.Redirect(w, r, "/rooms/"+view.ID.String(), http.StatusSeeOther)
}

// Join handles joining a room from its page
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.seatAction(w, r, h.registry.Join, "Joined the room", middleware.RememberSeat)
}

// Leave handles leaving a room from its page
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.seatAction(w, r, h.registry.Leave, "Left the room", func(w http.ResponseWriter, _ model.Seat) {
		middleware.ForgetSeat(w)
	})
}

type seatFunc func(ctx context.Context, id model.RoomID, seat model.Seat) (*model.RoomView, error)

func (h *RoomHandler) seatAction(w http.ResponseWriter, r *http.Request, fn seatFunc, success string, after func(http.ResponseWriter, model.Seat)) {
	id, err := model.ParseRoomID(mux.Vars(r)["id"])
	if err != nil {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/rooms/"+id.String(), http.StatusSeeOther)
		return
	}

	seat := model.Seat(r.FormValue("player"))
	view, err := fn(r.Context(), id, seat)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			h.notFound(w, r)
			return
		}
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/rooms/"+id.String(), http.StatusSeeOther)
		return
	}

	after(w, view.Viewer)
	middleware.SetFlash(w, "success", success)
	http.Redirect(w, r, "/rooms/"+id.String(), http.StatusSeeOther)
}

func (h *RoomHandler) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := views.NotFound(pageData(r, "Not found"), "That room does not exist.").Render(r.Context(), w); err != nil {
		h.logger.Warn("rendering not found page", slog.String("error", err.Error()))
	}
}

// flashMessage turns a domain error into a user-facing sentence
func flashMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "Something went wrong"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
