package handler

import (
	"net/http"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
)

// GameHandler handles turn flow endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// State handles GET /api/v1/rooms/{id}?viewer=
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.gameController.State(r.Context(), id, model.Seat(r.URL.Query().Get("viewer")))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromView(view))
}

// Start handles POST /api/v1/rooms/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.Start(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StartFromResult(result))
}

// Draw handles POST /api/v1/rooms/{id}/draw
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.gameController.Draw(r.Context(), id, model.Seat(req.Player))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DrawResponse{
		Tile: result.Tile,
		Hand: result.Hand,
		Win:  result.Win,
	})
}

// Discard handles POST /api/v1/rooms/{id}/discard
func (h *GameHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.DiscardRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.Discard(r.Context(), id, model.Seat(req.Player), model.Tile(req.Tile))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DiscardResponse{
		Tile:       result.Tile,
		Pending:    true,
		NextPlayer: result.NextPlayer,
	})
}

// CheckWin handles POST /api/v1/check_win
func (h *GameHandler) CheckWin(w http.ResponseWriter, r *http.Request) {
	var req request.CheckWinRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	win, err := h.gameController.CheckWin(r.Context(), toTiles(req.Tiles))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CheckWinResponse{Win: win})
}
