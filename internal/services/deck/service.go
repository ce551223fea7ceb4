package deck

import (
	"github.com/mcoot/mahjonggame-go/internal/dependencies/random"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Service provides deck and hand operations
type Service struct {
	random random.Random
}

// New creates a deck Service
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// Shuffled returns a fresh full deck in random order
func (s *Service) Shuffled() []model.Tile {
	tiles := model.NewDeck()
	random.Shuffle(s.random, tiles)
	return tiles
}

// Deal replaces the room's deck with a fresh shuffled one and deals
// model.HandSize tiles to every seat round-robin from the tail.
// Melds, discards, the owed discard and any open claim window are cleared.
func (s *Service) Deal(room *model.Room) error {
	if len(room.Seats) < model.MinPlayers {
		return model.ErrNotEnoughPlayers
	}

	room.Deck = s.Shuffled()
	room.Hands = make(map[model.Seat][]model.Tile, len(room.Seats))
	room.Melds = make(map[model.Seat][]model.Meld, len(room.Seats))
	for _, seat := range room.Seats {
		room.Hands[seat] = make([]model.Tile, 0, model.WinningHandSize)
		room.Melds[seat] = []model.Meld{}
	}

	for i := 0; i < model.HandSize; i++ {
		for _, seat := range room.Seats {
			tile, err := Draw(room)
			if err != nil {
				return err
			}
			room.Hands[seat] = append(room.Hands[seat], tile)
		}
	}

	room.Discards = nil
	room.MustDiscard = false
	room.ClearPending()
	return nil
}

// Draw pops the tile at the tail of the room's deck
func Draw(room *model.Room) (model.Tile, error) {
	n := len(room.Deck)
	if n == 0 {
		return 0, model.ErrDeckEmpty
	}
	tile := room.Deck[n-1]
	room.Deck = room.Deck[:n-1]
	return tile, nil
}

// Discard removes one copy of tile from seat's hand
func Discard(room *model.Room, seat model.Seat, tile model.Tile) error {
	hand, err := model.RemoveTiles(room.Hands[seat], []model.Tile{tile})
	if err != nil {
		return err
	}
	room.Hands[seat] = hand
	return nil
}
