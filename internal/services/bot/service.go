package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/claim"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
)

const (
	// SeatPrefix starts every bot seat name
	SeatPrefix = "Bot "
	// MaxBotIterations is a safety limit for the ProcessBotActions loop
	MaxBotIterations = 1000
)

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionDraw    BotActionType = "draw"
	ActionDiscard BotActionType = "discard"
	ActionClaim   BotActionType = "claim"
	ActionPass    BotActionType = "pass"
	ActionWin     BotActionType = "win"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type   BotActionType
	Seat   model.Seat
	Tile   model.Tile
	Action model.ClaimAction
}

// Service plays bot seats. It reacts to room events: Deliver marks a room
// as dirty and Run works through dirty rooms on its own goroutine.
type Service struct {
	registry       *registry.Registry
	gameController *game.Controller
	claimResolver  *claim.Resolver
	strategies     map[string]Strategy
	logger         *slog.Logger

	mu    sync.Mutex
	bots  map[model.RoomID]map[model.Seat]string
	dirty map[model.RoomID]struct{}
	wake  chan struct{}
}

// NewService creates a new bot Service
func NewService(
	registry *registry.Registry,
	gameController *game.Controller,
	claimResolver *claim.Resolver,
	strategies map[string]Strategy,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:       registry,
		gameController: gameController,
		claimResolver:  claimResolver,
		strategies:     strategies,
		logger:         logger.With(slog.String("component", "bots")),
		bots:           make(map[model.RoomID]map[model.Seat]string),
		dirty:          make(map[model.RoomID]struct{}),
		wake:           make(chan struct{}, 1),
	}
}

// AddBot seats a new bot in a waiting room
func (s *Service) AddBot(ctx context.Context, id model.RoomID, strategy string) (*model.RoomView, error) {
	if _, ok := s.strategies[strategy]; !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, strategy)
	}

	view, err := s.registry.Get(ctx, id, "")
	if err != nil {
		return nil, err
	}

	// Pick the first free name
	seat := model.Seat("")
	for n := 1; n <= model.MaxPlayers; n++ {
		candidate := model.Seat(fmt.Sprintf("%s%d", SeatPrefix, n))
		if !slices.Contains(view.Seats, candidate) {
			seat = candidate
			break
		}
	}
	if seat == "" {
		return nil, model.ErrRoomFull
	}

	// Register before joining so the join event already finds the bot
	s.mu.Lock()
	if s.bots[id] == nil {
		s.bots[id] = make(map[model.Seat]string)
	}
	s.bots[id][seat] = strategy
	s.mu.Unlock()

	view, err = s.registry.Join(ctx, id, seat)
	if err != nil {
		s.forget(id, seat)
		return nil, err
	}

	s.logger.Info("bot added to room",
		slog.String("room_id", id.String()),
		slog.String("seat", string(seat)),
		slog.String("strategy", strategy))

	return view, nil
}

// RemoveBot takes a bot seat out of a waiting room
func (s *Service) RemoveBot(ctx context.Context, id model.RoomID, seat model.Seat) (*model.RoomView, error) {
	if !s.IsBot(id, seat) {
		return nil, model.ErrNotBot
	}

	view, err := s.registry.Leave(ctx, id, seat)
	if err != nil {
		return nil, err
	}
	s.forget(id, seat)
	return view, nil
}

// IsBot reports whether seat in room id is played by a bot
func (s *Service) IsBot(id model.RoomID, seat model.Seat) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bots[id][seat]
	return ok
}

func (s *Service) forget(id model.RoomID, seat model.Seat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bots[id], seat)
	if len(s.bots[id]) == 0 {
		delete(s.bots, id)
	}
}

// botSeats returns the room's bot seats and their strategies
func (s *Service) botSeats(id model.RoomID) map[model.Seat]Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[model.Seat]Strategy, len(s.bots[id]))
	for seat, name := range s.bots[id] {
		out[seat] = s.strategies[name]
	}
	return out
}

// Deliver marks the event's room for processing if it has bots. It never
// blocks so it is safe to call from the event dispatcher.
func (s *Service) Deliver(ctx context.Context, evt model.Event) error {
	s.mu.Lock()
	_, ok := s.bots[evt.RoomID]
	if ok {
		s.dirty[evt.RoomID] = struct{}{}
	}
	s.mu.Unlock()

	if ok {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// Run processes dirty rooms until ctx is cancelled
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		s.mu.Lock()
		rooms := s.dirty
		s.dirty = make(map[model.RoomID]struct{})
		s.mu.Unlock()

		for id := range rooms {
			if _, err := s.ProcessBotActions(ctx, id); err != nil {
				s.logger.Warn("bot actions stopped",
					slog.String("room_id", id.String()),
					slog.String("error", err.Error()))
			}
		}
	}
}

// ProcessBotActions plays every bot move available in the room until a
// human has to act. It returns all actions taken.
func (s *Service) ProcessBotActions(ctx context.Context, id model.RoomID) ([]BotAction, error) {
	var actions []BotAction

	for range MaxBotIterations {
		bots := s.botSeats(id)
		if len(bots) == 0 {
			break
		}

		room, err := s.gameController.State(ctx, id, "")
		if err != nil {
			return actions, err
		}
		if room.Status != model.RoomStatusPlaying {
			break
		}

		var taken []BotAction
		if room.Pending != nil {
			taken, err = s.respondToDiscard(ctx, room, bots)
		} else if strategy, ok := bots[room.CurrentPlayer]; ok {
			taken, err = s.playTurn(ctx, id, room.CurrentPlayer, strategy)
		}
		actions = append(actions, taken...)
		if err != nil {
			return actions, err
		}
		if len(taken) == 0 {
			break // Waiting on a human
		}
	}

	return actions, nil
}

// respondToDiscard lets each bot that has not passed claim or pass on the
// pending discard, in turn order after the discarder
func (s *Service) respondToDiscard(ctx context.Context, room *model.RoomView, bots map[model.Seat]Strategy) ([]BotAction, error) {
	passed := make(map[model.Seat]bool, len(room.Passes))
	for _, seat := range room.Passes {
		passed[seat] = true
	}

	for _, seat := range othersAfter(room.Seats, room.Pending.Discarder) {
		strategy, ok := bots[seat]
		if !ok || passed[seat] {
			continue
		}

		view, err := s.gameController.State(ctx, room.ID, seat)
		if err != nil {
			return nil, err
		}

		// A win is always taken
		result, err := s.claimResolver.Claim(ctx, room.ID, claim.Request{Seat: seat, Action: model.ClaimHu})
		if err == nil {
			return []BotAction{{Type: ActionWin, Seat: seat, Tile: room.Pending.Tile, Action: result.Action}}, nil
		}
		if !errors.Is(err, model.ErrInvalidHu) {
			return nil, err
		}

		if c, ok := strategy.ChooseClaim(view); ok {
			result, err := s.claimResolver.Claim(ctx, room.ID, claim.Request{Seat: seat, Action: c.Action, Tiles: c.Tiles})
			switch {
			case err == nil:
				action := BotAction{Type: ActionClaim, Seat: seat, Tile: room.Pending.Tile, Action: result.Action}
				if result.Win {
					// Someone robbed the kong
					action = BotAction{Type: ActionWin, Seat: result.Winner, Tile: room.Pending.Tile, Action: result.Action}
				}
				return []BotAction{action}, nil
			case !errors.Is(err, model.ErrValidation):
				return nil, err
			}
			// An illegal choice falls through to a pass
		}

		if _, err := s.claimResolver.Pass(ctx, room.ID, seat); err != nil {
			return nil, err
		}
		return []BotAction{{Type: ActionPass, Seat: seat, Tile: room.Pending.Tile}}, nil
	}

	return nil, nil
}

// playTurn draws if the bot's hand is short and then discards
func (s *Service) playTurn(ctx context.Context, id model.RoomID, seat model.Seat, strategy Strategy) ([]BotAction, error) {
	var actions []BotAction

	view, err := s.gameController.State(ctx, id, seat)
	if err != nil {
		return nil, err
	}

	if !view.MustDiscard {
		draw, err := s.gameController.Draw(ctx, id, seat)
		if err != nil {
			if errors.Is(err, model.ErrDeckEmpty) {
				s.logger.Info("bot cannot draw from an empty deck",
					slog.String("room_id", id.String()),
					slog.String("seat", string(seat)))
				return nil, nil
			}
			return nil, err
		}
		if draw.Win {
			return []BotAction{{Type: ActionWin, Seat: seat, Tile: draw.Tile}}, nil
		}
		actions = append(actions, BotAction{Type: ActionDraw, Seat: seat, Tile: draw.Tile})
		view.Hand = draw.Hand
	}

	tile := strategy.ChooseDiscard(view)
	if _, err := s.gameController.Discard(ctx, id, seat, tile); err != nil {
		return actions, err
	}
	return append(actions, BotAction{Type: ActionDiscard, Seat: seat, Tile: tile}), nil
}

func othersAfter(seats []model.Seat, seat model.Seat) []model.Seat {
	start := -1
	for i, s := range seats {
		if s == seat {
			start = i
		}
	}
	out := make([]model.Seat, 0, len(seats))
	for i := 1; i < len(seats); i++ {
		out = append(out, seats[(start+i+len(seats))%len(seats)])
	}
	return out
}
