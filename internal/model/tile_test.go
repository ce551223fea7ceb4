package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHoldsFourOfEveryTile(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)
	for tile := MinTile; tile <= MaxTile; tile++ {
		assert.Equal(t, CopiesPerTile, CountTile(deck, tile), "tile %d", tile)
	}
}

func TestTileSuit(t *testing.T) {
	tests := []struct {
		tile   Tile
		suit   int
		suited bool
	}{
		{1, 0, true},
		{9, 0, true},
		{10, 1, true},
		{18, 1, true},
		{19, 2, true},
		{27, 2, true},
		{28, -1, false},
		{39, -1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.suit, tt.tile.Suit(), "tile %d", tt.tile)
		assert.Equal(t, tt.suited, tt.tile.IsSuited(), "tile %d", tt.tile)
		assert.Equal(t, !tt.suited, tt.tile.IsHonor(), "tile %d", tt.tile)
	}
}

func TestParseTiles(t *testing.T) {
	tiles, err := ParseTiles("4, 6")
	require.NoError(t, err)
	assert.Equal(t, []Tile{4, 6}, tiles)

	_, err = ParseTiles("4,x")
	assert.ErrorIs(t, err, ErrInvalidTile)

	_, err = ParseTiles("0,40")
	assert.ErrorIs(t, err, ErrInvalidTile)

	tiles, err = ParseTiles("")
	require.NoError(t, err)
	assert.Empty(t, tiles)
}

func TestIsRun(t *testing.T) {
	tests := []struct {
		name  string
		tiles []Tile
		want  bool
	}{
		{"consecutive low suit", []Tile{4, 5, 6}, true},
		{"unsorted input", []Tile{6, 4, 5}, true},
		{"gap", []Tile{4, 5, 7}, false},
		{"crosses suit boundary", []Tile{8, 9, 10}, false},
		{"honors", []Tile{28, 29, 30}, false},
		{"triplet", []Tile{5, 5, 5}, false},
		{"two tiles", []Tile{4, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRun(tt.tiles))
		})
	}
}

func TestRemoveTilesRespectsMultiplicity(t *testing.T) {
	hand := []Tile{5, 7, 7, 9}

	out, err := RemoveTiles(hand, []Tile{7, 7})
	require.NoError(t, err)
	assert.Equal(t, []Tile{5, 9}, out)
	assert.Equal(t, []Tile{5, 7, 7, 9}, hand)

	_, err = RemoveTiles(hand, []Tile{7, 7, 7})
	assert.ErrorIs(t, err, ErrTileNotInHand)
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrChiNotAdjacent, ErrValidation))
	assert.True(t, errors.Is(ErrRoomNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrUnauthorized, ErrAuth))
	assert.True(t, errors.Is(ErrOracleUnavailable, ErrDependencyUnavailable))
	assert.False(t, errors.Is(ErrRoomFull, ErrNotFound))
}

func TestRoomSeatDistance(t *testing.T) {
	room := NewRoom(1, "A", 4, time.Now())
	room.AddSeat("B")
	room.AddSeat("C")
	room.AddSeat("D")

	assert.Equal(t, 1, room.SeatDistance("A", "B"))
	assert.Equal(t, 3, room.SeatDistance("A", "D"))
	assert.Equal(t, 1, room.SeatDistance("D", "A"))
	assert.Equal(t, Seat("A"), room.NextSeat("D"))
	assert.Equal(t, []Seat{"C", "D", "A"}, room.Others("B"))
}

func TestRoomRemoveSeatCompactsReferences(t *testing.T) {
	room := NewRoom(1, "A", 4, time.Now())
	room.AddSeat("B")
	room.AddSeat("C")
	room.DealerIndex = 2
	room.CurrentPlayer = "B"

	room.RemoveSeat("B")

	assert.Equal(t, []Seat{"A", "C"}, room.Seats)
	assert.Equal(t, Seat("C"), room.Dealer())
	assert.Equal(t, Seat("C"), room.CurrentPlayer)

	room.RemoveSeat("C")
	assert.Equal(t, Seat("A"), room.Dealer())
	assert.Equal(t, Seat("A"), room.CurrentPlayer)
}

func TestClaimRecordOutranks(t *testing.T) {
	now := time.Now()
	hu := ClaimRecord{Action: ClaimHu, Distance: 3, SubmittedAt: now.Add(time.Second)}
	gang := ClaimRecord{Action: ClaimGang, Distance: 1, SubmittedAt: now}
	near := ClaimRecord{Action: ClaimPeng, Distance: 1, SubmittedAt: now.Add(time.Second)}
	far := ClaimRecord{Action: ClaimPeng, Distance: 2, SubmittedAt: now}
	first := ClaimRecord{Action: ClaimHu, Distance: 2, SubmittedAt: now, Sequence: 1}
	second := ClaimRecord{Action: ClaimHu, Distance: 2, SubmittedAt: now, Sequence: 2}

	assert.True(t, hu.Outranks(gang))
	assert.True(t, near.Outranks(far))
	assert.True(t, first.Outranks(second))
	assert.False(t, second.Outranks(first))
}
