package claim

import (
	"time"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/mocks"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/deck"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
	"github.com/mcoot/mahjonggame-go/internal/services/oracle"
	"github.com/mcoot/mahjonggame-go/internal/testutil"
)

func (s *ResolverSuite) newController() *game.Controller {
	return game.NewController(s.registry, deck.New(mocks.NewMockRandom()), oracle.NewStandard(), s.events, s.clock, testutil.NopLogger())
}

// seedDealt creates a playing room seated A, B, C, D holding hands, with
// the rest of a full deck behind them. draws come off the deck first, in
// order. A is to draw.
func (s *ResolverSuite) seedDealt(hands map[model.Seat][]model.Tile, draws []model.Tile) model.RoomID {
	view, err := s.registry.Create(s.ctx, "A", 4)
	s.Require().NoError(err)
	for _, seat := range []model.Seat{"B", "C", "D"} {
		_, err := s.registry.Join(s.ctx, view.ID, seat)
		s.Require().NoError(err)
	}

	rest := model.NewDeck()
	for _, seat := range []model.Seat{"A", "B", "C", "D"} {
		rest, err = model.RemoveTiles(rest, hands[seat])
		s.Require().NoError(err, "seat %s", seat)
	}
	rest, err = model.RemoveTiles(rest, draws)
	s.Require().NoError(err)
	for i := len(draws) - 1; i >= 0; i-- {
		rest = append(rest, draws[i])
	}

	err = s.registry.Update(view.ID, func(room *model.Room) error {
		room.Status = model.RoomStatusPlaying
		for seat, h := range hands {
			room.Hands[seat] = append([]model.Tile(nil), h...)
		}
		room.Deck = rest
		room.CurrentPlayer = "A"
		return nil
	})
	s.Require().NoError(err)

	s.flush()
	s.recorder.Reset()
	return view.ID
}

func (s *ResolverSuite) assertTilesConserved(id model.RoomID, step string) {
	counts := s.room(id).TileCounts()
	for t := model.MinTile; t <= model.MaxTile; t++ {
		s.Equal(model.CopiesPerTile, counts[t], "%s: tile %d", step, t)
	}
}

func (s *ResolverSuite) TestTilesConservedThroughClaims() {
	controller := s.newController()
	timeout := 10 * time.Second
	id := s.seedDealt(map[model.Seat][]model.Tile{
		"A": waitingHand,
		"B": {16, 18, 20, 29, 29, 30, 31, 32, 33, 34, 35, 36, 37},
		"C": {11, 11, 11, 20, 20, 22, 30, 31, 32, 33, 34, 35, 36},
		"D": {22, 22, 22, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38},
	}, []model.Tile{17, 39, 27, 11})
	s.assertTilesConserved(id, "deal")

	// A discards 17 and B chis it
	drawn, err := controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)
	s.Equal(model.Tile(17), drawn.Tile)
	_, err = controller.Discard(s.ctx, id, "A", 17)
	s.Require().NoError(err)
	s.assertTilesConserved(id, "discard 17")

	result, err := s.resolver.Claim(s.ctx, id, Request{Seat: "B", Action: model.ClaimChi, Tiles: []model.Tile{16, 18}})
	s.Require().NoError(err)
	s.Equal(model.ClaimChi, result.Action)
	s.assertTilesConserved(id, "chi")

	_, err = controller.Draw(s.ctx, id, "B")
	s.ErrorIs(err, model.ErrMustDiscard)

	// B discards 20 and C pengs it
	_, err = controller.Discard(s.ctx, id, "B", 20)
	s.Require().NoError(err)
	result, err = s.resolver.Claim(s.ctx, id, Request{Seat: "C", Action: model.ClaimPeng})
	s.Require().NoError(err)
	s.Equal(model.ClaimPeng, result.Action)
	s.assertTilesConserved(id, "peng")

	_, err = controller.Draw(s.ctx, id, "C")
	s.ErrorIs(err, model.ErrMustDiscard)

	// C discards 22 and D gangs it, then takes the replacement draw
	_, err = controller.Discard(s.ctx, id, "C", 22)
	s.Require().NoError(err)
	result, err = s.resolver.Claim(s.ctx, id, Request{Seat: "D", Action: model.ClaimGang})
	s.Require().NoError(err)
	s.Equal(model.ClaimGang, result.Action)
	s.False(result.Win)
	s.assertTilesConserved(id, "gang")

	drawn, err = controller.Draw(s.ctx, id, "D")
	s.Require().NoError(err)
	s.Equal(model.Tile(39), drawn.Tile)
	s.assertTilesConserved(id, "replacement draw")

	// Nobody wants D's 39
	_, err = controller.Discard(s.ctx, id, "D", 39)
	s.Require().NoError(err)
	for _, seat := range []model.Seat{"A", "B", "C"} {
		_, err = s.resolver.Pass(s.ctx, id, seat)
		s.Require().NoError(err)
	}
	s.Nil(s.room(id).Pending)
	s.assertTilesConserved(id, "all passed")

	// A's 27 goes unanswered until the window times out
	drawn, err = controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)
	s.Equal(model.Tile(27), drawn.Tile)
	_, err = controller.Discard(s.ctx, id, "A", 27)
	s.Require().NoError(err)
	s.clock.Advance(timeout + time.Nanosecond)
	s.Equal(1, s.resolver.ExpirePending(s.ctx, timeout))
	s.assertTilesConserved(id, "expired")

	// B discards the last 11; C's gang is robbed by A waiting on it
	drawn, err = controller.Draw(s.ctx, id, "B")
	s.Require().NoError(err)
	s.Equal(model.Tile(11), drawn.Tile)
	_, err = controller.Discard(s.ctx, id, "B", 11)
	s.Require().NoError(err)
	result, err = s.resolver.Claim(s.ctx, id, Request{Seat: "C", Action: model.ClaimGang})
	s.Require().NoError(err)
	s.Equal(model.ClaimHu, result.Action)
	s.Equal(model.Seat("A"), result.Winner)
	s.True(result.RobbedKong)
	s.assertTilesConserved(id, "robbed kong")
	s.Equal(model.RoomStatusFinished, s.room(id).Status)
}

func (s *ResolverSuite) TestMeldClaimantMustDiscardFirst() {
	tests := []struct {
		name    string
		hand    []model.Tile
		req     Request
		canDraw bool
	}{
		{
			name: "chi",
			hand: []model.Tile{16, 18, 29, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38},
			req:  Request{Seat: "B", Action: model.ClaimChi, Tiles: []model.Tile{16, 18}},
		},
		{
			name: "peng",
			hand: []model.Tile{17, 17, 29, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38},
			req:  Request{Seat: "B", Action: model.ClaimPeng},
		},
		{
			name:    "gang",
			hand:    []model.Tile{17, 17, 17, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38},
			req:     Request{Seat: "B", Action: model.ClaimGang},
			canDraw: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			controller := s.newController()
			id := s.seedDealt(map[model.Seat][]model.Tile{
				"A": waitingHand,
				"B": tt.hand,
			}, []model.Tile{17})

			_, err := controller.Draw(s.ctx, id, "A")
			s.Require().NoError(err)
			_, err = controller.Discard(s.ctx, id, "A", 17)
			s.Require().NoError(err)
			_, err = s.resolver.Claim(s.ctx, id, tt.req)
			s.Require().NoError(err)
			s.Equal(model.Seat("B"), s.room(id).CurrentPlayer)

			deckCount := len(s.room(id).Deck)
			_, err = controller.Draw(s.ctx, id, "B")
			if tt.canDraw {
				s.Require().NoError(err)
				s.Len(s.room(id).Deck, deckCount-1)
			} else {
				s.ErrorIs(err, model.ErrMustDiscard)
				s.Len(s.room(id).Deck, deckCount)
			}

			// Either way B now owes exactly one discard
			_, err = controller.Discard(s.ctx, id, "B", 38)
			s.Require().NoError(err)
			s.assertTilesConserved(id, tt.name)
		})
	}
}
