package handler

import (
	"net/http"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/claim"
)

// ClaimHandler handles the claim window endpoints
type ClaimHandler struct {
	resolver *claim.Resolver
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(resolver *claim.Resolver) *ClaimHandler {
	return &ClaimHandler{
		resolver: resolver,
	}
}

// Claim handles POST /api/v1/rooms/{id}/claim
func (h *ClaimHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.ClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	action, err := model.ParseClaimAction(req.Action)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.resolver.Claim(r.Context(), id, claim.Request{
		Seat:   model.Seat(req.Player),
		Action: action,
		Tiles:  toTiles(req.Tiles),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClaimFromResult(result))
}

// Pass handles POST /api/v1/rooms/{id}/pass
func (h *ClaimHandler) Pass(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.resolver.Pass(r.Context(), id, model.Seat(req.Player))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PassResponse{
		Passes:   result.Passes,
		Resolved: result.Resolved,
	})
}
