package bot

import "github.com/mcoot/mahjonggame-go/internal/model"

// Strategy decides what a bot seat does with its own view of the room.
// Winning claims are not a strategy choice: bots always take a win.
type Strategy interface {
	// ChooseDiscard selects a tile from view.Hand to discard
	ChooseDiscard(view *model.RoomView) model.Tile
	// ChooseClaim selects a chi, peng or gang on the pending discard.
	// ok is false to pass.
	ChooseClaim(view *model.RoomView) (claim Claim, ok bool)
}

// Claim is a non-winning claim a strategy wants to make
type Claim struct {
	Action model.ClaimAction
	// Tiles are the two hand tiles for a chi
	Tiles []model.Tile
}

// Strategy names
const (
	StrategyRandom = "random"
	StrategyGreedy = "greedy"
)

// claimOptions lists the claims view.Hand could legally make on the
// pending discard, strongest first
func claimOptions(view *model.RoomView) []Claim {
	if view.Pending == nil || view.Viewer == "" || view.Viewer == view.Pending.Discarder {
		return nil
	}

	tile := view.Pending.Tile
	var out []Claim
	switch model.CountTile(view.Hand, tile) {
	case 3:
		out = append(out, Claim{Action: model.ClaimGang}, Claim{Action: model.ClaimPeng})
	case 2:
		out = append(out, Claim{Action: model.ClaimPeng})
	}

	if tile.IsSuited() && nextSeat(view, view.Pending.Discarder) == view.Viewer {
		for _, pair := range [][2]model.Tile{{tile - 2, tile - 1}, {tile - 1, tile + 1}, {tile + 1, tile + 2}} {
			run := []model.Tile{pair[0], pair[1], tile}
			if !model.IsRun(run) {
				continue
			}
			if _, err := model.RemoveTiles(view.Hand, pair[:]); err == nil {
				out = append(out, Claim{Action: model.ClaimChi, Tiles: []model.Tile{pair[0], pair[1]}})
			}
		}
	}
	return out
}

func nextSeat(view *model.RoomView, seat model.Seat) model.Seat {
	for i, s := range view.Seats {
		if s == seat {
			return view.Seats[(i+1)%len(view.Seats)]
		}
	}
	return ""
}
