package deck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/mocks"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

func (s *ServiceSuite) newRoom(seats ...model.Seat) *model.Room {
	room := model.NewRoom(1, seats[0], model.MaxPlayers, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	for _, seat := range seats[1:] {
		room.AddSeat(seat)
	}
	return room
}

// Shuffled tests

func (s *ServiceSuite) TestShuffledKeepsEveryTile() {
	s.random.QueueIntn(5, 17, 3, 150, 42, 0, 99)

	tiles := s.service.Shuffled()

	s.Len(tiles, model.DeckSize)
	for t := model.MinTile; t <= model.MaxTile; t++ {
		s.Equal(model.CopiesPerTile, model.CountTile(tiles, t))
	}
}

func (s *ServiceSuite) TestShuffledUsesRandomSwaps() {
	// First swap exchanges the last tile with index 0
	s.random.QueueIntn(0)

	tiles := s.service.Shuffled()

	s.Equal(model.MinTile, tiles[len(tiles)-1])
	s.Equal(model.MaxTile, tiles[0])
}

// Deal tests

func (s *ServiceSuite) TestDealGivesThirteenTilesEach() {
	room := s.newRoom("A", "B", "C", "D")

	s.Require().NoError(s.service.Deal(room))

	for _, seat := range room.Seats {
		s.Len(room.Hands[seat], model.HandSize)
		s.Empty(room.Melds[seat])
	}
	s.Len(room.Deck, model.DeckSize-4*model.HandSize)
}

func (s *ServiceSuite) TestDealIsRoundRobinFromTail() {
	room := s.newRoom("A", "B")

	s.Require().NoError(s.service.Deal(room))

	// Unshuffled deck ends ..., 39, 39, 39, 39, 38, ... so A and B alternate
	s.Equal(model.Tile(39), room.Hands["A"][0])
	s.Equal(model.Tile(39), room.Hands["B"][0])
	s.Equal(model.Tile(39), room.Hands["A"][1])
	s.Equal(model.Tile(38), room.Hands["A"][2])
}

func (s *ServiceSuite) TestDealClearsPreviousHandState() {
	room := s.newRoom("A", "B")
	room.Discards = []model.Discard{{Seat: "A", Tile: 5}}
	room.Melds["A"] = []model.Meld{{Kind: model.MeldPeng, Tiles: []model.Tile{7, 7, 7}}}
	room.Pending = &model.PendingDiscard{Discarder: "A", Tile: 5}
	room.Passes["B"] = true

	s.Require().NoError(s.service.Deal(room))

	s.Empty(room.Discards)
	s.Empty(room.Melds["A"])
	s.Nil(room.Pending)
	s.Empty(room.Passes)
}

func (s *ServiceSuite) TestDealConservesTiles() {
	room := s.newRoom("A", "B", "C")

	s.Require().NoError(s.service.Deal(room))

	counts := room.TileCounts()
	for t := model.MinTile; t <= model.MaxTile; t++ {
		s.Equal(model.CopiesPerTile, counts[t])
	}
}

func (s *ServiceSuite) TestDealNeedsTwoSeats() {
	room := s.newRoom("A")

	err := s.service.Deal(room)
	s.ErrorIs(err, model.ErrNotEnoughPlayers)
}

// Draw and Discard tests

func (s *ServiceSuite) TestDrawPopsTail() {
	room := s.newRoom("A", "B")
	room.Deck = []model.Tile{1, 2, 3}

	tile, err := Draw(room)
	s.Require().NoError(err)
	s.Equal(model.Tile(3), tile)
	s.Equal([]model.Tile{1, 2}, room.Deck)
}

func (s *ServiceSuite) TestDrawFromEmptyDeck() {
	room := s.newRoom("A", "B")

	_, err := Draw(room)
	s.ErrorIs(err, model.ErrDeckEmpty)
}

func (s *ServiceSuite) TestDiscardTwiceFromSingleCopyFails() {
	room := s.newRoom("A", "B")
	room.Hands["A"] = []model.Tile{5, 6}

	s.Require().NoError(Discard(room, "A", 5))
	s.ErrorIs(Discard(room, "A", 5), model.ErrTileNotInHand)
	s.Equal([]model.Tile{6}, room.Hands["A"])
}
