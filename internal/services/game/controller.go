package game

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/deck"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
	"github.com/mcoot/mahjonggame-go/internal/services/oracle"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
)

// StartResult describes a freshly dealt hand
type StartResult struct {
	Seats         []model.Seat
	Dealer        model.Seat
	CurrentPlayer model.Seat
	DeckCount     int
}

// DrawResult describes the outcome of a draw
type DrawResult struct {
	Tile model.Tile
	Hand []model.Tile
	// Win is set when the drawn tile completed the hand and the game ended
	Win bool
}

// DiscardResult describes the claim window opened by a discard
type DiscardResult struct {
	Tile       model.Tile
	NextPlayer model.Seat
}

// Controller manages the room state machine and turn flow
type Controller struct {
	registry    *registry.Registry
	deckService *deck.Service
	oracle      oracle.Oracle
	events      *events.Broadcaster
	clock       clock.Clock
	logger      *slog.Logger

	windowSeq atomic.Int64
}

// NewController creates a new GameController
func NewController(
	registry *registry.Registry,
	deckService *deck.Service,
	oracle oracle.Oracle,
	events *events.Broadcaster,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:    registry,
		deckService: deckService,
		oracle:      oracle,
		events:      events,
		clock:       clock,
		logger:      logger.With(slog.String("component", "game")),
	}
}

// Start deals a new hand. Allowed from waiting, or from finished to play again.
func (c *Controller) Start(ctx context.Context, id model.RoomID) (*StartResult, error) {
	var result *StartResult
	err := c.registry.Update(id, func(room *model.Room) error {
		if room.Status == model.RoomStatusPlaying {
			return model.ErrGameInProgress
		}
		if len(room.Seats) < model.MinPlayers {
			return model.ErrNotEnoughPlayers
		}

		if err := c.deckService.Deal(room); err != nil {
			return err
		}

		now := c.clock.Now()
		room.Status = model.RoomStatusPlaying
		room.CurrentPlayer = room.Dealer()
		room.UpdatedAt = now

		result = &StartResult{
			Seats:         append([]model.Seat(nil), room.Seats...),
			Dealer:        room.Dealer(),
			CurrentPlayer: room.CurrentPlayer,
			DeckCount:     len(room.Deck),
		}

		c.events.Publish(model.Event{
			Type:      model.EventGameStarted,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      room.Dealer(),
			Payload: model.GameStartedPayload{
				Seats:         result.Seats,
				Dealer:        result.Dealer,
				CurrentPlayer: result.CurrentPlayer,
				DeckCount:     result.DeckCount,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("room_id", id.String()),
		slog.Int("player_count", len(result.Seats)),
		slog.String("dealer", string(result.Dealer)))
	return result, nil
}

// Draw takes the tail tile of the deck into seat's hand and checks for a win
func (c *Controller) Draw(ctx context.Context, id model.RoomID, seat model.Seat) (*DrawResult, error) {
	var result *DrawResult
	err := c.registry.Update(id, func(room *model.Room) error {
		if room.Status != model.RoomStatusPlaying {
			return model.ErrNotPlaying
		}
		if !room.HasSeat(seat) {
			return model.ErrSeatNotInRoom
		}
		if room.Pending != nil {
			return model.ErrPendingDiscardOpen
		}
		if room.CurrentPlayer != seat {
			return model.ErrNotPlayerTurn
		}
		if room.MustDiscard {
			return model.ErrMustDiscard
		}
		if len(room.Deck) == 0 {
			return model.ErrDeckEmpty
		}

		// Check before mutating so an oracle failure leaves the deck intact
		tile := room.Deck[len(room.Deck)-1]
		win, err := oracle.Check(ctx, c.oracle, room.WinningCandidate(seat, tile))
		if err != nil {
			return err
		}

		if _, err := deck.Draw(room); err != nil {
			return err
		}
		room.Hands[seat] = append(room.Hands[seat], tile)
		now := c.clock.Now()
		room.UpdatedAt = now

		result = &DrawResult{
			Tile: tile,
			Hand: model.SortTiles(room.Hands[seat]),
			Win:  win,
		}

		if win {
			room.Status = model.RoomStatusFinished
			room.MustDiscard = false
			room.ClearPending()
			c.events.Publish(model.Event{
				Type:      model.EventWin,
				Timestamp: now,
				RoomID:    room.ID,
				Seat:      seat,
				Payload:   model.WinPayload{Winner: seat, Hand: result.Hand},
			})
			return nil
		}

		room.MustDiscard = true
		c.events.Publish(model.Event{
			Type:      model.EventDraw,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      seat,
			Payload: model.DrawPayload{
				HandCount: len(room.Hands[seat]),
				DeckCount: len(room.Deck),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Win {
		c.logger.Info("hand won on draw",
			slog.String("room_id", id.String()),
			slog.String("seat", string(seat)))
	}
	return result, nil
}

// Discard moves a tile from seat's hand to the discard log and opens a
// claim window. The turn advances to the next seat unless a claim takes it.
func (c *Controller) Discard(ctx context.Context, id model.RoomID, seat model.Seat, tile model.Tile) (*DiscardResult, error) {
	if !tile.Valid() {
		return nil, model.ErrInvalidTile
	}

	var result *DiscardResult
	err := c.registry.Update(id, func(room *model.Room) error {
		if room.Status != model.RoomStatusPlaying {
			return model.ErrNotPlaying
		}
		if !room.HasSeat(seat) {
			return model.ErrSeatNotInRoom
		}
		if room.Pending != nil {
			return model.ErrPendingDiscardOpen
		}
		if room.CurrentPlayer != seat {
			return model.ErrNotPlayerTurn
		}
		if !room.MustDiscard {
			return model.ErrMustDraw
		}
		if err := deck.Discard(room, seat, tile); err != nil {
			return err
		}
		room.MustDiscard = false

		now := c.clock.Now()
		room.Discards = append(room.Discards, model.Discard{Seat: seat, Tile: tile})
		room.ClearPending()
		room.Pending = &model.PendingDiscard{
			ID:        c.windowSeq.Add(1),
			Discarder: seat,
			Tile:      tile,
			CreatedAt: now,
			Claims:    []model.ClaimRecord{},
		}
		room.CurrentPlayer = room.NextSeat(seat)
		room.UpdatedAt = now

		result = &DiscardResult{Tile: tile, NextPlayer: room.CurrentPlayer}

		c.events.Publish(model.Event{
			Type:      model.EventDiscard,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      seat,
			Payload: model.DiscardPayload{
				Tile:       tile,
				Pending:    true,
				NextPlayer: room.CurrentPlayer,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// State returns a snapshot of the room as seen by viewer
func (c *Controller) State(ctx context.Context, id model.RoomID, viewer model.Seat) (*model.RoomView, error) {
	return c.registry.Get(ctx, id, viewer)
}

// SetHand overwrites a seat's concealed hand. Admin test helper: it does
// not preserve tile counts.
func (c *Controller) SetHand(ctx context.Context, id model.RoomID, seat model.Seat, tiles []model.Tile) error {
	for _, t := range tiles {
		if !t.Valid() {
			return model.ErrInvalidTile
		}
	}

	err := c.registry.Update(id, func(room *model.Room) error {
		if !room.HasSeat(seat) {
			return model.ErrSeatNotInRoom
		}
		room.Hands[seat] = append([]model.Tile(nil), tiles...)
		room.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Warn("hand overwritten by admin",
		slog.String("room_id", id.String()),
		slog.String("seat", string(seat)),
		slog.Int("hand_count", len(tiles)))
	return nil
}

// CheckWin asks the oracle about an arbitrary set of tiles
func (c *Controller) CheckWin(ctx context.Context, tiles []model.Tile) (bool, error) {
	if len(tiles) != model.WinningHandSize {
		return false, model.ErrInvalidHandSize
	}
	return oracle.Check(ctx, c.oracle, tiles)
}
