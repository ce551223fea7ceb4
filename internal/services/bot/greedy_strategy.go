package bot

import "github.com/mcoot/mahjonggame-go/internal/model"

// GreedyStrategy always takes the strongest legal claim and discards the
// tile that contributes least to sets in hand
type GreedyStrategy struct{}

// ChooseDiscard returns the least connected tile, preferring higher codes on ties
func (GreedyStrategy) ChooseDiscard(view *model.RoomView) model.Tile {
	var best model.Tile
	bestScore := -1
	for _, t := range view.Hand {
		score := connectedness(view.Hand, t)
		if bestScore < 0 || score < bestScore || (score == bestScore && t > best) {
			best, bestScore = t, score
		}
	}
	return best
}

// ChooseClaim returns the strongest legal claim
func (GreedyStrategy) ChooseClaim(view *model.RoomView) (Claim, bool) {
	options := claimOptions(view)
	if len(options) == 0 {
		return Claim{}, false
	}
	return options[0], true
}

// connectedness scores how many other tiles in hand could form a set with t
func connectedness(hand []model.Tile, t model.Tile) int {
	score := (model.CountTile(hand, t) - 1) * 2
	if !t.IsSuited() {
		return score
	}
	for _, d := range []model.Tile{-2, -1, 1, 2} {
		n := t + d
		if n.IsSuited() && n.Suit() == t.Suit() && model.CountTile(hand, n) > 0 {
			score++
		}
	}
	return score
}
