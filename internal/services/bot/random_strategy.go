package bot

import (
	"github.com/mcoot/mahjonggame-go/internal/dependencies/random"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

// RandomStrategy discards a random tile and takes a legal claim half the time
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseDiscard returns a random tile from the hand
func (s *RandomStrategy) ChooseDiscard(view *model.RoomView) model.Tile {
	if len(view.Hand) == 0 {
		return 0
	}
	return view.Hand[s.random.Intn(len(view.Hand))]
}

// ChooseClaim picks one of the legal claims at random, or passes
func (s *RandomStrategy) ChooseClaim(view *model.RoomView) (Claim, bool) {
	options := claimOptions(view)
	if len(options) == 0 {
		return Claim{}, false
	}
	// One extra slot for passing
	i := s.random.Intn(len(options) + 1)
	if i == len(options) {
		return Claim{}, false
	}
	return options[i], true
}
