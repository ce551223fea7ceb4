package oracle

import (
	"context"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Standard recognises four sets plus a pair. A set is three identical
// tiles or three consecutive tiles of one suit.
type Standard struct{}

// NewStandard creates the standard winning-hand oracle
func NewStandard() *Standard {
	return &Standard{}
}

// Ensure Standard implements Oracle
var _ Oracle = (*Standard)(nil)

// IsWin returns false for malformed input rather than an error
func (o *Standard) IsWin(_ context.Context, tiles []model.Tile) (bool, error) {
	return IsWinningHand(tiles), nil
}

// IsWinningHand reports whether exactly 14 valid tiles decompose into
// four sets and one pair
func IsWinningHand(tiles []model.Tile) bool {
	if len(tiles) != model.WinningHandSize {
		return false
	}

	var counts [model.MaxTile + 1]int
	for _, t := range tiles {
		if !t.Valid() {
			return false
		}
		counts[t]++
	}

	for pair := model.MinTile; pair <= model.MaxTile; pair++ {
		if counts[pair] < 2 {
			continue
		}
		counts[pair] -= 2
		ok := decomposeSets(&counts, model.MinTile)
		counts[pair] += 2
		if ok {
			return true
		}
	}
	return false
}

// decomposeSets reports whether the remaining counts split entirely into
// sets. The lowest remaining tile must start either a triplet or a run.
func decomposeSets(counts *[model.MaxTile + 1]int, from model.Tile) bool {
	t := from
	for t <= model.MaxTile && counts[t] == 0 {
		t++
	}
	if t > model.MaxTile {
		return true
	}

	if counts[t] >= 3 {
		counts[t] -= 3
		ok := decomposeSets(counts, t)
		counts[t] += 3
		if ok {
			return true
		}
	}

	if startsRun(t) && counts[t+1] > 0 && counts[t+2] > 0 {
		counts[t]--
		counts[t+1]--
		counts[t+2]--
		ok := decomposeSets(counts, t)
		counts[t]++
		counts[t+1]++
		counts[t+2]++
		if ok {
			return true
		}
	}

	return false
}

func startsRun(t model.Tile) bool {
	return t.IsSuited() && (t+2).IsSuited() && t.Suit() == (t+2).Suit()
}
