package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Room events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventGameStarted  EventType = "game_started"

	// Turn events
	EventDraw    EventType = "draw"
	EventDiscard EventType = "discard"
	EventWin     EventType = "win"

	// Claim window events
	EventClaim          EventType = "claim"
	EventHu             EventType = "hu"
	EventPass           EventType = "pass"
	EventPendingCleared EventType = "pending_cleared"
)

// Reasons a claim window closes without a winning claim
const (
	ClearReasonTimeout   = "timeout"
	ClearReasonAllPassed = "all_passed"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RoomID    RoomID    `json:"room_id"`
	Seat      Seat      `json:"player,omitempty"` // The seat that triggered the event
	Payload   any       `json:"payload,omitempty"`
}

// SeatPayload contains data for player joined and left events
type SeatPayload struct {
	Seats []Seat `json:"seats"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Seats         []Seat `json:"seats"`
	Dealer        Seat   `json:"dealer"`
	CurrentPlayer Seat   `json:"current_player"`
	DeckCount     int    `json:"deck_count"`
}

// DrawPayload contains data for draw events. The drawn tile stays private.
type DrawPayload struct {
	HandCount int `json:"hand_count"`
	DeckCount int `json:"deck_count"`
}

// DiscardPayload contains data for discard events
type DiscardPayload struct {
	Tile       Tile `json:"tile"`
	Pending    bool `json:"pending"`
	NextPlayer Seat `json:"next_player"`
}

// WinPayload contains data for a win on draw
type WinPayload struct {
	Winner Seat   `json:"winner"`
	Hand   []Tile `json:"hand"`
}

// ClaimPayload contains data for an applied chi, peng or gang
type ClaimPayload struct {
	Action ClaimAction `json:"action"`
	Tile   Tile        `json:"tile"`
	Melds  []Meld      `json:"melds"`
}

// HuPayload contains data for a win on a discard
type HuPayload struct {
	Winner     Seat `json:"winner"`
	Discarder  Seat `json:"discarder"`
	Tile       Tile `json:"tile"`
	RobbedKong bool `json:"robbed_kong,omitempty"`
}

// PassPayload contains data for pass events
type PassPayload struct {
	Passes []Seat `json:"passes"`
}

// PendingClearedPayload contains data for pending cleared events
type PendingClearedPayload struct {
	Reason    string `json:"reason"`
	Discarder Seat   `json:"discarder"`
	Tile      Tile   `json:"tile"`
}
