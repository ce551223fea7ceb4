package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeSeatNotInRoom   = "SEAT_NOT_IN_ROOM"
	CodeRoomFull        = "ROOM_FULL"
	CodeAlreadyStarted  = "ALREADY_STARTED"
	CodeDuplicateSeat   = "DUPLICATE_SEAT"
	CodeInvalidSeat     = "INVALID_SEAT"
	CodeInvalidPlayers  = "INVALID_MAX_PLAYERS"
	CodeGameInProgress  = "GAME_IN_PROGRESS"
	CodeNotEnough       = "NOT_ENOUGH_PLAYERS"
	CodeNotPlaying      = "NOT_PLAYING"
	CodePendingOpen     = "PENDING_DISCARD_OPEN"
	CodeNotYourTurn     = "NOT_YOUR_TURN"
	CodeMustDiscard     = "MUST_DISCARD"
	CodeMustDraw        = "MUST_DRAW"
	CodeDeckEmpty       = "DECK_EMPTY"
	CodeTileNotInHand   = "TILE_NOT_IN_HAND"
	CodeInvalidTile     = "INVALID_TILE"
	CodeNoPending       = "NO_PENDING_DISCARD"
	CodeSelfClaim       = "SELF_CLAIM"
	CodeInvalidAction   = "INVALID_ACTION"
	CodeInsufficient    = "INSUFFICIENT_TILES"
	CodeChiNotAdjacent  = "CHI_NOT_ADJACENT"
	CodeInvalidChi      = "INVALID_CHI"
	CodeInvalidHu       = "INVALID_HU"
	CodeDiscarderPass   = "DISCARDER_CANNOT_PASS"
	CodeInvalidHandSize = "INVALID_HAND_SIZE"
	CodeOracleMissing   = "ORACLE_UNAVAILABLE"
	CodeOracleFailed    = "ORACLE_FAILED"
	CodeUnknownStrategy = "UNKNOWN_STRATEGY"
	CodeNotBot          = "NOT_A_BOT"
	CodeSweeperNotFound = "SWEEPER_NOT_FOUND"
	CodeInvalidSchedule = "INVALID_SCHEDULE"
	CodeUnavailable     = "UNAVAILABLE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// codes maps each sentinel to its machine code. The HTTP status comes
// from the sentinel's kind.
var codes = []struct {
	err  error
	code string
}{
	{model.ErrRoomNotFound, CodeRoomNotFound},
	{model.ErrSeatNotInRoom, CodeSeatNotInRoom},
	{model.ErrRoomFull, CodeRoomFull},
	{model.ErrAlreadyStarted, CodeAlreadyStarted},
	{model.ErrDuplicateSeat, CodeDuplicateSeat},
	{model.ErrInvalidSeat, CodeInvalidSeat},
	{model.ErrInvalidMaxPlayers, CodeInvalidPlayers},
	{model.ErrGameInProgress, CodeGameInProgress},
	{model.ErrNotEnoughPlayers, CodeNotEnough},
	{model.ErrNotPlaying, CodeNotPlaying},
	{model.ErrPendingDiscardOpen, CodePendingOpen},
	{model.ErrNotPlayerTurn, CodeNotYourTurn},
	{model.ErrMustDiscard, CodeMustDiscard},
	{model.ErrMustDraw, CodeMustDraw},
	{model.ErrDeckEmpty, CodeDeckEmpty},
	{model.ErrTileNotInHand, CodeTileNotInHand},
	{model.ErrInvalidTile, CodeInvalidTile},
	{model.ErrNoPendingDiscard, CodeNoPending},
	{model.ErrSelfClaim, CodeSelfClaim},
	{model.ErrInvalidAction, CodeInvalidAction},
	{model.ErrInsufficientTiles, CodeInsufficient},
	{model.ErrChiNotAdjacent, CodeChiNotAdjacent},
	{model.ErrInvalidChi, CodeInvalidChi},
	{model.ErrInvalidHu, CodeInvalidHu},
	{model.ErrDiscarderCannotPass, CodeDiscarderPass},
	{model.ErrInvalidHandSize, CodeInvalidHandSize},
	{model.ErrUnauthorized, CodeUnauthorized},
	{model.ErrOracleUnavailable, CodeOracleMissing},
	{model.ErrOracleFailed, CodeOracleFailed},
	{model.ErrUnknownStrategy, CodeUnknownStrategy},
	{model.ErrNotBot, CodeNotBot},
	{model.ErrSweeperNotFound, CodeSweeperNotFound},
	{model.ErrInvalidSchedule, CodeInvalidSchedule},
}

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	status, ok := kindStatus(err)
	if !ok {
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}

	code := CodeInvalidRequest
	for _, c := range codes {
		if errors.Is(err, c.err) {
			code = c.code
			break
		}
	}
	if code == CodeInvalidRequest && status == http.StatusServiceUnavailable {
		code = CodeUnavailable
	}
	return &httpError{status, APIError{code, err.Error()}}
}

// kindStatus maps an error kind to an HTTP status
func kindStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, model.ErrAuth):
		return http.StatusUnauthorized, true
	case errors.Is(err, model.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, true
	default:
		return 0, false
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Admin credential required"}}
}

// NewUnavailableError reports an optional backend that is not configured
func NewUnavailableError(message string) error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
