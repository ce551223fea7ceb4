package model

import "time"

// RoomView is a read-only snapshot of a room as seen by one viewer.
// Only the viewer's own hand is included, other seats are shown as counts.
type RoomView struct {
	ID            RoomID
	Seats         []Seat
	MaxPlayers    int
	Status        RoomStatus
	DealerIndex   int
	CurrentPlayer Seat
	MustDiscard   bool
	DeckCount     int
	Viewer        Seat
	Hand          []Tile
	HandCounts    map[Seat]int
	Melds         map[Seat][]Meld
	Discards      []Discard
	Pending       *PendingView
	Passes        []Seat
	UpdatedAt     time.Time
}

// PendingView describes the open claim window
type PendingView struct {
	ID        int64
	Discarder Seat
	Tile      Tile
	CreatedAt time.Time
	Claims    []ClaimRecord
}

// View builds the snapshot of the room for viewer. An empty or unknown
// viewer sees no concealed tiles.
func (r *Room) View(viewer Seat) *RoomView {
	v := &RoomView{
		ID:            r.ID,
		Seats:         append([]Seat(nil), r.Seats...),
		MaxPlayers:    r.MaxPlayers,
		Status:        r.Status,
		DealerIndex:   r.DealerIndex,
		CurrentPlayer: r.CurrentPlayer,
		MustDiscard:   r.MustDiscard,
		DeckCount:     len(r.Deck),
		HandCounts:    make(map[Seat]int, len(r.Seats)),
		Melds:         make(map[Seat][]Meld, len(r.Seats)),
		Discards:      append([]Discard(nil), r.Discards...),
		Passes:        r.PassedSeats(),
		UpdatedAt:     r.UpdatedAt,
	}

	for _, s := range r.Seats {
		v.HandCounts[s] = len(r.Hands[s])
		melds := make([]Meld, len(r.Melds[s]))
		for i, m := range r.Melds[s] {
			melds[i] = Meld{Kind: m.Kind, Tiles: append([]Tile(nil), m.Tiles...)}
		}
		v.Melds[s] = melds
	}

	if r.HasSeat(viewer) {
		v.Viewer = viewer
		v.Hand = SortTiles(r.Hands[viewer])
	}

	if r.Pending != nil {
		v.Pending = &PendingView{
			ID:        r.Pending.ID,
			Discarder: r.Pending.Discarder,
			Tile:      r.Pending.Tile,
			CreatedAt: r.Pending.CreatedAt,
			Claims:    append([]ClaimRecord(nil), r.Pending.Claims...),
		}
	}

	return v
}
