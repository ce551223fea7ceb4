package model

import "errors"

// Error kinds. Every error below unwraps to exactly one of these so callers
// can classify with errors.Is without knowing the specific failure.
var (
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("not found")
	ErrAuth                  = errors.New("authentication error")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// kindError is a sentinel error tagged with its kind
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// Common errors used across the application
var (
	// Registry errors
	ErrRoomNotFound      = newError(ErrNotFound, "room not found")
	ErrSeatNotInRoom     = newError(ErrNotFound, "seat is not in room")
	ErrRoomFull          = newError(ErrValidation, "room is full")
	ErrAlreadyStarted    = newError(ErrValidation, "room has already started")
	ErrDuplicateSeat     = newError(ErrValidation, "seat is already in room")
	ErrInvalidSeat       = newError(ErrValidation, "seat name is required")
	ErrInvalidMaxPlayers = newError(ErrValidation, "max players must be between 2 and 4")
	ErrGameInProgress    = newError(ErrValidation, "game is in progress")
	ErrNotEnoughPlayers  = newError(ErrValidation, "not enough players to start")

	// Turn errors
	ErrNotPlaying         = newError(ErrValidation, "game is not in progress")
	ErrPendingDiscardOpen = newError(ErrValidation, "a discard is waiting for claims")
	ErrNotPlayerTurn      = newError(ErrValidation, "not this seat's turn")
	ErrMustDiscard        = newError(ErrValidation, "seat must discard before drawing")
	ErrMustDraw           = newError(ErrValidation, "seat must draw before discarding")
	ErrDeckEmpty          = newError(ErrValidation, "deck is empty")
	ErrTileNotInHand      = newError(ErrValidation, "tile is not in hand")
	ErrInvalidTile        = newError(ErrValidation, "invalid tile code")

	// Claim errors
	ErrNoPendingDiscard    = newError(ErrValidation, "no discard is waiting for claims")
	ErrSelfClaim           = newError(ErrValidation, "cannot claim own discard")
	ErrInvalidAction       = newError(ErrValidation, "unknown claim action")
	ErrInsufficientTiles   = newError(ErrValidation, "not enough matching tiles in hand")
	ErrChiNotAdjacent      = newError(ErrValidation, "chi is only allowed for the next seat")
	ErrInvalidChi          = newError(ErrValidation, "tiles do not form a same-suit run")
	ErrInvalidHu           = newError(ErrValidation, "hand is not a winning hand")
	ErrDiscarderCannotPass = newError(ErrValidation, "discarder cannot pass on own discard")
	ErrInvalidHandSize     = newError(ErrValidation, "a winning check needs exactly 14 tiles")

	// Auth errors
	ErrUnauthorized = newError(ErrAuth, "missing or invalid admin credential")

	// Dependency errors
	ErrOracleUnavailable = newError(ErrDependencyUnavailable, "win oracle is not configured")
	ErrOracleFailed      = newError(ErrDependencyUnavailable, "win oracle failed")

	// Bot errors
	ErrUnknownStrategy = newError(ErrValidation, "unknown bot strategy")
	ErrNotBot          = newError(ErrValidation, "seat is not a bot")

	// Sweeper errors
	ErrSweeperNotFound = newError(ErrNotFound, "sweeper not found")
	ErrInvalidSchedule = newError(ErrValidation, "interval and timeout must be positive")
)
