package response

import (
	"encoding/json"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/auth"
	"github.com/mcoot/mahjonggame-go/internal/services/claim"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
)

// Room represents a room snapshot in API responses
type Room struct {
	ID            model.RoomID                `json:"id"`
	Players       []model.Seat                `json:"players"`
	MaxPlayers    int                         `json:"max_players"`
	Status        model.RoomStatus            `json:"status"`
	Dealer        model.Seat                  `json:"dealer,omitempty"`
	CurrentPlayer model.Seat                  `json:"current_player,omitempty"`
	MustDiscard   bool                        `json:"must_discard"`
	DeckCount     int                         `json:"deck_count"`
	Viewer        model.Seat                  `json:"viewer,omitempty"`
	Hand          []model.Tile                `json:"hand,omitempty"`
	HandCounts    map[model.Seat]int          `json:"hand_counts"`
	Melds         map[model.Seat][]model.Meld `json:"melds"`
	Discards      []model.Discard             `json:"discards"`
	Pending       *Pending                    `json:"pending_discard"`
	Passes        []model.Seat                `json:"passes"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Pending represents the open claim window
type Pending struct {
	ID        int64               `json:"id"`
	Discarder model.Seat          `json:"discarder"`
	Tile      model.Tile          `json:"tile"`
	CreatedAt time.Time           `json:"created_at"`
	Claims    []model.ClaimRecord `json:"claims"`
}

// RoomFromView converts a model.RoomView
func RoomFromView(v *model.RoomView) Room {
	r := Room{
		ID:            v.ID,
		Players:       v.Seats,
		MaxPlayers:    v.MaxPlayers,
		Status:        v.Status,
		CurrentPlayer: v.CurrentPlayer,
		MustDiscard:   v.MustDiscard,
		DeckCount:     v.DeckCount,
		Viewer:        v.Viewer,
		Hand:          v.Hand,
		HandCounts:    v.HandCounts,
		Melds:         v.Melds,
		Discards:      v.Discards,
		Passes:        v.Passes,
		UpdatedAt:     v.UpdatedAt,
	}
	if len(v.Seats) > 0 {
		r.Dealer = v.Seats[v.DealerIndex%len(v.Seats)]
	}
	if r.Discards == nil {
		r.Discards = []model.Discard{}
	}
	if v.Pending != nil {
		r.Pending = &Pending{
			ID:        v.Pending.ID,
			Discarder: v.Pending.Discarder,
			Tile:      v.Pending.Tile,
			CreatedAt: v.Pending.CreatedAt,
			Claims:    v.Pending.Claims,
		}
	}
	return r
}

// StartResponse is the response for starting a game
type StartResponse struct {
	Players       []model.Seat `json:"players"`
	Dealer        model.Seat   `json:"dealer"`
	CurrentPlayer model.Seat   `json:"current_player"`
	DeckCount     int          `json:"deck_count"`
}

// StartFromResult converts a game.StartResult
func StartFromResult(r *game.StartResult) StartResponse {
	return StartResponse{
		Players:       r.Seats,
		Dealer:        r.Dealer,
		CurrentPlayer: r.CurrentPlayer,
		DeckCount:     r.DeckCount,
	}
}

// DrawResponse is the response for drawing a tile
type DrawResponse struct {
	Tile model.Tile   `json:"tile"`
	Hand []model.Tile `json:"hand"`
	Win  bool         `json:"win"`
}

// DiscardResponse is the response for discarding a tile
type DiscardResponse struct {
	Tile       model.Tile `json:"tile"`
	Pending    bool       `json:"pending"`
	NextPlayer model.Seat `json:"next_player"`
}

// ClaimResponse is the response for an applied claim
type ClaimResponse struct {
	Action     model.ClaimAction `json:"action"`
	Winner     model.Seat        `json:"winner"`
	Melds      []model.Meld      `json:"melds"`
	Win        bool              `json:"win"`
	RobbedKong bool              `json:"robbed_kong"`
}

// ClaimFromResult converts a claim.Result
func ClaimFromResult(r *claim.Result) ClaimResponse {
	return ClaimResponse{
		Action:     r.Action,
		Winner:     r.Winner,
		Melds:      r.Melds,
		Win:        r.Win,
		RobbedKong: r.RobbedKong,
	}
}

// PassResponse is the response for passing on a discard
type PassResponse struct {
	Passes   []model.Seat `json:"passes"`
	Resolved string       `json:"resolved"`
}

// CheckWinResponse is the response for a winning-hand check
type CheckWinResponse struct {
	Win bool `json:"win"`
}

// HistoryResponse lists a room's recent events, oldest first
type HistoryResponse struct {
	Events []json.RawMessage `json:"events"`
}

// AdminSession is the response for an admin login
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminSessionFromSession converts an auth.Session
func AdminSessionFromSession(s *auth.Session) AdminSession {
	return AdminSession{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}
