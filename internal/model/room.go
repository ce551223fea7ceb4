package model

import (
	"strconv"
	"time"
)

// RoomID uniquely identifies a room. IDs are assigned in increasing order.
type RoomID int64

// String returns the decimal form of the ID
func (id RoomID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseRoomID parses a decimal room ID
func ParseRoomID(s string) (RoomID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrRoomNotFound
	}
	return RoomID(n), nil
}

// Seat is a player's name within a room
type Seat string

// RoomStatus represents the current phase of a room
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// Player limits per room
const (
	MinPlayers     = 2
	MaxPlayers     = 4
	DefaultPlayers = MaxPlayers
)

// MeldKind is the kind of exposed set
type MeldKind string

const (
	MeldChi  MeldKind = "chi"
	MeldPeng MeldKind = "peng"
	MeldGang MeldKind = "gang"
)

// Meld is a set of tiles taken out of a hand and revealed
type Meld struct {
	Kind  MeldKind `json:"kind"`
	Tiles []Tile   `json:"tiles"`
}

// Discard is one entry in a room's discard log
type Discard struct {
	Seat Seat `json:"seat"`
	Tile Tile `json:"tile"`
}

// PendingDiscard is the claim window opened by a discard
type PendingDiscard struct {
	// ID identifies the window across all rooms
	ID        int64
	Discarder Seat
	Tile      Tile
	CreatedAt time.Time
	Claims    []ClaimRecord
}

// Room is one game's authoritative state
type Room struct {
	ID            RoomID
	Seats         []Seat
	MaxPlayers    int
	Status        RoomStatus
	Deck          []Tile
	Hands         map[Seat][]Tile
	Melds         map[Seat][]Meld
	Discards      []Discard
	DealerIndex   int
	CurrentPlayer Seat
	// MustDiscard is set while CurrentPlayer holds a full hand and owes a discard
	MustDiscard   bool
	Pending       *PendingDiscard
	Passes        map[Seat]bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRoom creates a waiting room holding a single seat
func NewRoom(id RoomID, seat Seat, maxPlayers int, now time.Time) *Room {
	return &Room{
		ID:         id,
		Seats:      []Seat{seat},
		MaxPlayers: maxPlayers,
		Status:     RoomStatusWaiting,
		Hands:      map[Seat][]Tile{seat: {}},
		Melds:      map[Seat][]Meld{seat: {}},
		Passes:     make(map[Seat]bool),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SeatIndex returns the turn-order position of a seat, or -1
func (r *Room) SeatIndex(seat Seat) int {
	for i, s := range r.Seats {
		if s == seat {
			return i
		}
	}
	return -1
}

// HasSeat checks if a seat is in the room
func (r *Room) HasSeat(seat Seat) bool {
	return r.SeatIndex(seat) >= 0
}

// IsFull reports whether the room has reached its capacity
func (r *Room) IsFull() bool {
	return len(r.Seats) >= r.MaxPlayers
}

// NextSeat returns the seat after the given one in cyclic turn order
func (r *Room) NextSeat(seat Seat) Seat {
	idx := r.SeatIndex(seat)
	if idx < 0 || len(r.Seats) == 0 {
		return seat
	}
	return r.Seats[(idx+1)%len(r.Seats)]
}

// SeatDistance returns the cyclic offset of seat from origin
func (r *Room) SeatDistance(origin, seat Seat) int {
	n := len(r.Seats)
	if n == 0 {
		return 0
	}
	return ((r.SeatIndex(seat)-r.SeatIndex(origin))%n + n) % n
}

// Dealer returns the seat holding the dealer position
func (r *Room) Dealer() Seat {
	if len(r.Seats) == 0 {
		return ""
	}
	return r.Seats[r.DealerIndex%len(r.Seats)]
}

// AddSeat appends a seat at the end of the turn order
func (r *Room) AddSeat(seat Seat) {
	r.Seats = append(r.Seats, seat)
	r.Hands[seat] = []Tile{}
	r.Melds[seat] = []Meld{}
}

// RemoveSeat drops a seat and compacts the dealer and current-player references
func (r *Room) RemoveSeat(seat Seat) {
	idx := r.SeatIndex(seat)
	if idx < 0 {
		return
	}

	r.Seats = append(r.Seats[:idx:idx], r.Seats[idx+1:]...)
	delete(r.Hands, seat)
	delete(r.Melds, seat)
	delete(r.Passes, seat)

	if len(r.Seats) == 0 {
		r.DealerIndex = 0
		r.CurrentPlayer = ""
		return
	}
	if idx < r.DealerIndex {
		r.DealerIndex--
	}
	if r.DealerIndex >= len(r.Seats) {
		r.DealerIndex = 0
	}
	if r.CurrentPlayer == seat {
		r.CurrentPlayer = r.Seats[idx%len(r.Seats)]
		r.MustDiscard = false
	}
}

// Others returns every seat except the given one, in turn order starting after it
func (r *Room) Others(seat Seat) []Seat {
	n := len(r.Seats)
	start := r.SeatIndex(seat)
	out := make([]Seat, 0, n)
	for i := 1; i <= n; i++ {
		s := r.Seats[(start+i+n)%n]
		if s != seat {
			out = append(out, s)
		}
	}
	return out
}

// MeldTiles flattens a seat's melds into the tiles they represent for a
// winning check. A kong counts as a three-tile set.
func (r *Room) MeldTiles(seat Seat) []Tile {
	var out []Tile
	for _, m := range r.Melds[seat] {
		tiles := m.Tiles
		if m.Kind == MeldGang && len(tiles) > 3 {
			tiles = tiles[:3]
		}
		out = append(out, tiles...)
	}
	return out
}

// WinningCandidate returns the tiles to check when seat takes tile
func (r *Room) WinningCandidate(seat Seat, tile Tile) []Tile {
	hand := r.Hands[seat]
	melds := r.MeldTiles(seat)
	out := make([]Tile, 0, len(hand)+len(melds)+1)
	out = append(out, hand...)
	out = append(out, melds...)
	return append(out, tile)
}

// ClearPending closes the claim window and forgets recorded passes
func (r *Room) ClearPending() {
	r.Pending = nil
	r.Passes = make(map[Seat]bool)
}

// PassesComplete reports whether every seat except the discarder has passed
func (r *Room) PassesComplete() bool {
	if r.Pending == nil {
		return false
	}
	for _, s := range r.Seats {
		if s == r.Pending.Discarder {
			continue
		}
		if !r.Passes[s] {
			return false
		}
	}
	return true
}

// PassedSeats returns the seats that have passed, in turn order
func (r *Room) PassedSeats() []Seat {
	out := make([]Seat, 0, len(r.Passes))
	for _, s := range r.Seats {
		if r.Passes[s] {
			out = append(out, s)
		}
	}
	return out
}

// TakeLastDiscard removes the discard log tail if it is the given tile
func (r *Room) TakeLastDiscard(tile Tile) {
	n := len(r.Discards)
	if n > 0 && r.Discards[n-1].Tile == tile {
		r.Discards = r.Discards[:n-1]
	}
}

// TileCounts tallies every tile in hands, melds, deck and discard log
func (r *Room) TileCounts() map[Tile]int {
	counts := make(map[Tile]int)
	for _, hand := range r.Hands {
		for _, t := range hand {
			counts[t]++
		}
	}
	for _, melds := range r.Melds {
		for _, m := range melds {
			for _, t := range m.Tiles {
				counts[t]++
			}
		}
	}
	for _, t := range r.Deck {
		counts[t]++
	}
	for _, d := range r.Discards {
		counts[d.Tile]++
	}
	return counts
}
