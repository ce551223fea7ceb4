package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mahjonggame-go/internal/api/apierr"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("Invalid request body")
	}
	return nil
}

// roomID parses the {id} path variable
func roomID(r *http.Request) (model.RoomID, error) {
	return model.ParseRoomID(mux.Vars(r)["id"])
}

// toTiles converts request tile codes
func toTiles(codes []int) []model.Tile {
	tiles := make([]model.Tile, len(codes))
	for i, c := range codes {
		tiles[i] = model.Tile(c)
	}
	return tiles
}
