package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/bot"
)

// BotHandler handles bot seat endpoints
type BotHandler struct {
	botService *bot.Service
}

// NewBotHandler creates a new bot handler
func NewBotHandler(botService *bot.Service) *BotHandler {
	return &BotHandler{
		botService: botService,
	}
}

// Add handles POST /api/v1/rooms/{id}/bots
func (h *BotHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.AddBotRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
	}
	if req.Strategy == "" {
		req.Strategy = bot.StrategyRandom
	}

	view, err := h.botService.AddBot(r.Context(), id, req.Strategy)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromView(view))
}

// Remove handles DELETE /api/v1/rooms/{id}/bots/{seat}
func (h *BotHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.botService.RemoveBot(r.Context(), id, model.Seat(mux.Vars(r)["seat"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromView(view))
}
