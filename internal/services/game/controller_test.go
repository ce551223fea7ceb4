package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/mocks"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/deck"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
	"github.com/mcoot/mahjonggame-go/internal/services/oracle"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	events     *events.Broadcaster
	recorder   *testutil.EventRecorder
	registry   *registry.Registry
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.events = events.NewBroadcaster(256, testutil.NopLogger())
	s.recorder = testutil.NewEventRecorder()
	s.Require().NoError(s.events.SetSink(s.recorder))
	s.registry = registry.New(s.events, s.clock, testutil.NopLogger())
	s.controller = s.newController(oracle.NewStandard())
	s.ctx = context.Background()
}

func (s *ControllerSuite) newController(o oracle.Oracle) *Controller {
	return NewController(s.registry, deck.New(s.random), o, s.events, s.clock, testutil.NopLogger())
}

func (s *ControllerSuite) flush() {
	s.events.Flush(s.ctx)
}

// createRoom returns a waiting room holding the given seats in order
func (s *ControllerSuite) createRoom(seats ...model.Seat) model.RoomID {
	view, err := s.registry.Create(s.ctx, seats[0], model.MaxPlayers)
	s.Require().NoError(err)
	for _, seat := range seats[1:] {
		_, err := s.registry.Join(s.ctx, view.ID, seat)
		s.Require().NoError(err)
	}
	return view.ID
}

// startedRoom returns a playing room seated A, B, C
func (s *ControllerSuite) startedRoom() model.RoomID {
	id := s.createRoom("A", "B", "C")
	_, err := s.controller.Start(s.ctx, id)
	s.Require().NoError(err)
	s.flush()
	s.recorder.Reset()
	return id
}

func (s *ControllerSuite) room(id model.RoomID) *model.Room {
	var out *model.Room
	s.Require().NoError(s.registry.Update(id, func(room *model.Room) error {
		out = room
		return nil
	}))
	return out
}

func (s *ControllerSuite) assertTilesConserved(id model.RoomID) {
	counts := s.room(id).TileCounts()
	for t := model.MinTile; t <= model.MaxTile; t++ {
		s.Equal(model.CopiesPerTile, counts[t], "tile %d", t)
	}
}

// Start tests

func (s *ControllerSuite) TestStartDealsHands() {
	id := s.createRoom("A", "B", "C")

	result, err := s.controller.Start(s.ctx, id)
	s.Require().NoError(err)

	s.Equal([]model.Seat{"A", "B", "C"}, result.Seats)
	s.Equal(model.Seat("A"), result.Dealer)
	s.Equal(model.Seat("A"), result.CurrentPlayer)
	s.Equal(model.DeckSize-3*model.HandSize, result.DeckCount)

	room := s.room(id)
	s.Equal(model.RoomStatusPlaying, room.Status)
	for _, seat := range room.Seats {
		s.Len(room.Hands[seat], model.HandSize)
		s.Empty(room.Melds[seat])
	}
	s.Empty(room.Discards)
	s.Nil(room.Pending)
	s.assertTilesConserved(id)

	s.flush()
	evt, ok := s.recorder.Last(model.EventGameStarted)
	s.Require().True(ok)
	s.Equal(model.Seat("A"), evt.Payload.(model.GameStartedPayload).Dealer)
}

func (s *ControllerSuite) TestStartRequiresTwoSeats() {
	id := s.createRoom("A")

	_, err := s.controller.Start(s.ctx, id)
	s.ErrorIs(err, model.ErrNotEnoughPlayers)
	s.Equal(model.RoomStatusWaiting, s.room(id).Status)
}

func (s *ControllerSuite) TestStartRejectedWhilePlaying() {
	id := s.startedRoom()

	_, err := s.controller.Start(s.ctx, id)
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *ControllerSuite) TestStartAgainAfterFinish() {
	id := s.startedRoom()
	s.Require().NoError(s.registry.Update(id, func(room *model.Room) error {
		room.Status = model.RoomStatusFinished
		room.Melds["B"] = []model.Meld{{Kind: model.MeldPeng, Tiles: []model.Tile{5, 5, 5}}}
		return nil
	}))

	_, err := s.controller.Start(s.ctx, id)
	s.Require().NoError(err)

	room := s.room(id)
	s.Equal(model.RoomStatusPlaying, room.Status)
	s.Empty(room.Melds["B"])
	s.assertTilesConserved(id)
}

func (s *ControllerSuite) TestStartUnknownRoom() {
	_, err := s.controller.Start(s.ctx, 42)
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

// Draw tests

func (s *ControllerSuite) TestDrawTakesTailTile() {
	id := s.startedRoom()
	room := s.room(id)
	tail := room.Deck[len(room.Deck)-1]
	deckCount := len(room.Deck)

	result, err := s.controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)

	s.Equal(tail, result.Tile)
	s.False(result.Win)
	s.Len(result.Hand, model.WinningHandSize)

	room = s.room(id)
	s.Len(room.Deck, deckCount-1)
	s.Equal(model.RoomStatusPlaying, room.Status)
	s.assertTilesConserved(id)

	s.flush()
	evt, ok := s.recorder.Last(model.EventDraw)
	s.Require().True(ok)
	s.Equal(model.DrawPayload{HandCount: model.WinningHandSize, DeckCount: deckCount - 1}, evt.Payload)
}

func (s *ControllerSuite) TestDrawOutOfTurn() {
	id := s.startedRoom()

	_, err := s.controller.Draw(s.ctx, id, "B")
	s.ErrorIs(err, model.ErrNotPlayerTurn)

	_, err = s.controller.Draw(s.ctx, id, "Z")
	s.ErrorIs(err, model.ErrSeatNotInRoom)
}

func (s *ControllerSuite) TestDrawBeforeStart() {
	id := s.createRoom("A", "B")

	_, err := s.controller.Draw(s.ctx, id, "A")
	s.ErrorIs(err, model.ErrNotPlaying)
}

func (s *ControllerSuite) TestDrawFromEmptyDeck() {
	id := s.startedRoom()
	s.Require().NoError(s.registry.Update(id, func(room *model.Room) error {
		room.Deck = nil
		return nil
	}))

	_, err := s.controller.Draw(s.ctx, id, "A")
	s.ErrorIs(err, model.ErrDeckEmpty)
}

func (s *ControllerSuite) TestDrawCompletesWinningHand() {
	id := s.startedRoom()
	s.Require().NoError(s.controller.SetHand(s.ctx, id, "A",
		[]model.Tile{1, 2, 3, 4, 5, 6, 7, 8, 9, 28, 28, 12, 13}))
	s.Require().NoError(s.registry.Update(id, func(room *model.Room) error {
		room.Deck = append(room.Deck, 14)
		return nil
	}))

	result, err := s.controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)

	s.True(result.Win)
	s.Equal(model.Tile(14), result.Tile)
	s.Equal(model.RoomStatusFinished, s.room(id).Status)

	s.flush()
	evt, ok := s.recorder.Last(model.EventWin)
	s.Require().True(ok)
	s.Equal(model.Seat("A"), evt.Payload.(model.WinPayload).Winner)
	s.Len(evt.Payload.(model.WinPayload).Hand, model.WinningHandSize)
	_, drew := s.recorder.Last(model.EventDraw)
	s.False(drew)
}

func (s *ControllerSuite) TestDrawOracleFailureLeavesDeck() {
	s.controller = s.newController(oracle.Func(func(context.Context, []model.Tile) (bool, error) {
		return false, errors.New("timeout")
	}))
	id := s.startedRoom()
	before := len(s.room(id).Deck)

	_, err := s.controller.Draw(s.ctx, id, "A")
	s.ErrorIs(err, model.ErrOracleFailed)

	room := s.room(id)
	s.Len(room.Deck, before)
	s.Len(room.Hands["A"], model.HandSize)
}

// Discard tests

func (s *ControllerSuite) TestDiscardOpensWindow() {
	id := s.startedRoom()
	drawn, err := s.controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)

	result, err := s.controller.Discard(s.ctx, id, "A", drawn.Tile)
	s.Require().NoError(err)
	s.Equal(model.Seat("B"), result.NextPlayer)

	room := s.room(id)
	s.Require().NotNil(room.Pending)
	s.Equal(model.Seat("A"), room.Pending.Discarder)
	s.Equal(drawn.Tile, room.Pending.Tile)
	s.Equal(s.clock.Now(), room.Pending.CreatedAt)
	s.Equal(model.Seat("B"), room.CurrentPlayer)
	s.Equal([]model.Discard{{Seat: "A", Tile: drawn.Tile}}, room.Discards)
	s.Len(room.Hands["A"], model.HandSize)
	s.assertTilesConserved(id)

	s.flush()
	s.Equal([]model.EventType{model.EventDraw, model.EventDiscard}, s.recorder.Types())
	evt, _ := s.recorder.Last(model.EventDiscard)
	s.Equal(model.DiscardPayload{Tile: drawn.Tile, Pending: true, NextPlayer: "B"}, evt.Payload)
}

func (s *ControllerSuite) TestTurnBlockedWhileWindowOpen() {
	id := s.startedRoom()
	drawn, err := s.controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)
	_, err = s.controller.Discard(s.ctx, id, "A", drawn.Tile)
	s.Require().NoError(err)

	_, err = s.controller.Draw(s.ctx, id, "B")
	s.ErrorIs(err, model.ErrPendingDiscardOpen)

	hand := s.room(id).Hands["B"]
	_, err = s.controller.Discard(s.ctx, id, "B", hand[0])
	s.ErrorIs(err, model.ErrPendingDiscardOpen)
}

func (s *ControllerSuite) TestDiscardRejections() {
	id := s.startedRoom()
	_, err := s.controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)
	s.Require().NoError(s.controller.SetHand(s.ctx, id, "A", []model.Tile{1, 2, 3}))

	_, err = s.controller.Discard(s.ctx, id, "A", 9)
	s.ErrorIs(err, model.ErrTileNotInHand)

	_, err = s.controller.Discard(s.ctx, id, "A", 0)
	s.ErrorIs(err, model.ErrInvalidTile)

	_, err = s.controller.Discard(s.ctx, id, "B", 1)
	s.ErrorIs(err, model.ErrNotPlayerTurn)

	s.Nil(s.room(id).Pending)
	s.Equal([]model.Tile{1, 2, 3}, s.room(id).Hands["A"])
}

func (s *ControllerSuite) TestDiscardRequiresDraw() {
	id := s.startedRoom()
	before := append([]model.Tile(nil), s.room(id).Hands["A"]...)

	_, err := s.controller.Discard(s.ctx, id, "A", before[0])
	s.ErrorIs(err, model.ErrMustDraw)
	s.Nil(s.room(id).Pending)
	s.Equal(before, s.room(id).Hands["A"])
	s.False(s.room(id).MustDiscard)
}

func (s *ControllerSuite) TestDrawTwiceRejected() {
	id := s.startedRoom()

	drawn, err := s.controller.Draw(s.ctx, id, "A")
	s.Require().NoError(err)
	s.True(s.room(id).MustDiscard)
	deckCount := len(s.room(id).Deck)

	_, err = s.controller.Draw(s.ctx, id, "A")
	s.ErrorIs(err, model.ErrMustDiscard)
	s.Len(s.room(id).Deck, deckCount)
	s.Len(s.room(id).Hands["A"], model.WinningHandSize)

	_, err = s.controller.Discard(s.ctx, id, "A", drawn.Tile)
	s.Require().NoError(err)
	s.False(s.room(id).MustDiscard)
}

func (s *ControllerSuite) TestWindowIDsIncrease() {
	first := s.startedRoom()
	second := s.startedRoom()

	for _, id := range []model.RoomID{first, second} {
		drawn, err := s.controller.Draw(s.ctx, id, "A")
		s.Require().NoError(err)
		_, err = s.controller.Discard(s.ctx, id, "A", drawn.Tile)
		s.Require().NoError(err)
	}

	s.Less(s.room(first).Pending.ID, s.room(second).Pending.ID)
}

// State and admin tests

func (s *ControllerSuite) TestStateHidesOtherHands() {
	id := s.startedRoom()

	view, err := s.controller.State(s.ctx, id, "B")
	s.Require().NoError(err)
	s.Equal(model.Seat("B"), view.Viewer)
	s.Len(view.Hand, model.HandSize)
	s.Equal(model.HandSize, view.HandCounts["A"])

	view, err = s.controller.State(s.ctx, id, "")
	s.Require().NoError(err)
	s.Empty(view.Hand)
	s.Empty(view.Viewer)
}

func (s *ControllerSuite) TestSetHandRejections() {
	id := s.startedRoom()

	err := s.controller.SetHand(s.ctx, id, "Z", []model.Tile{1})
	s.ErrorIs(err, model.ErrSeatNotInRoom)

	err = s.controller.SetHand(s.ctx, id, "A", []model.Tile{1, 40})
	s.ErrorIs(err, model.ErrInvalidTile)
}

func (s *ControllerSuite) TestSetHandIsLogged() {
	logger, logs := testutil.CaptureLogger()
	controller := NewController(s.registry, deck.New(s.random), oracle.NewStandard(), s.events, s.clock, logger)
	id := s.startedRoom()

	s.Require().NoError(controller.SetHand(s.ctx, id, "A", []model.Tile{1, 2, 3}))
	s.Contains(logs.String(), `"msg":"hand overwritten by admin"`)
	s.Contains(logs.String(), `"seat":"A"`)
	s.Contains(logs.String(), `"hand_count":3`)
}

func (s *ControllerSuite) TestCheckWin() {
	win, err := s.controller.CheckWin(s.ctx, []model.Tile{1, 2, 3, 4, 5, 6, 7, 8, 9, 28, 28, 12, 13, 14})
	s.Require().NoError(err)
	s.True(win)

	win, err = s.controller.CheckWin(s.ctx, []model.Tile{1, 2, 3, 4, 5, 6, 7, 8, 9, 28, 28, 12, 13, 20})
	s.Require().NoError(err)
	s.False(win)

	_, err = s.controller.CheckWin(s.ctx, []model.Tile{1, 2, 3})
	s.ErrorIs(err, model.ErrInvalidHandSize)
}

func (s *ControllerSuite) TestCheckWinWithoutOracle() {
	s.controller = s.newController(nil)

	_, err := s.controller.CheckWin(s.ctx, []model.Tile{1, 2, 3, 4, 5, 6, 7, 8, 9, 28, 28, 12, 13, 14})
	s.ErrorIs(err, model.ErrOracleUnavailable)
}
