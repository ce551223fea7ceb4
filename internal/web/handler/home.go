package handler

import (
	"net/http"

	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/web/middleware"
	"github.com/mcoot/mahjonggame-go/internal/web/views"
)

// HomeHandler handles the home page
type HomeHandler struct {
	registry *registry.Registry
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(registry *registry.Registry) *HomeHandler {
	return &HomeHandler{
		registry: registry,
	}
}

// Home renders the room list
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := views.HomeData{
		PageData: pageData(r, "Home"),
		Rooms:    h.registry.List(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func pageData(r *http.Request, title string) views.PageData {
	return views.PageData{
		Title: title,
		Seat:  string(middleware.GetSeat(r.Context())),
		Flash: middleware.GetFlash(r.Context()),
	}
}
