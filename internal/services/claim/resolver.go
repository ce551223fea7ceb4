package claim

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
	"github.com/mcoot/mahjonggame-go/internal/services/oracle"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
)

// Request is a claim on the pending discard
type Request struct {
	Seat   model.Seat
	Action model.ClaimAction
	// Tiles are the two hand tiles used for a chi
	Tiles []model.Tile
}

// Result describes the claim that was applied
type Result struct {
	Action     model.ClaimAction
	Winner     model.Seat
	Melds      []model.Meld
	Win        bool
	RobbedKong bool
}

// Resolver accepts claims against a pending discard and applies the winner
type Resolver struct {
	registry *registry.Registry
	oracle   oracle.Oracle
	events   *events.Broadcaster
	clock    clock.Clock
	logger   *slog.Logger
}

// NewResolver creates a Resolver
func NewResolver(
	registry *registry.Registry,
	oracle oracle.Oracle,
	events *events.Broadcaster,
	clock clock.Clock,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		registry: registry,
		oracle:   oracle,
		events:   events,
		clock:    clock,
		logger:   logger.With(slog.String("component", "claims")),
	}
}

// Claim records a claim and immediately resolves the window. A rejected
// claim is not recorded and leaves the room unchanged.
func (r *Resolver) Claim(ctx context.Context, id model.RoomID, req Request) (*Result, error) {
	if req.Action.Priority() == 0 {
		return nil, model.ErrInvalidAction
	}

	var result *Result
	err := r.registry.Update(id, func(room *model.Room) error {
		pending := room.Pending
		if pending == nil {
			return model.ErrNoPendingDiscard
		}
		if !room.HasSeat(req.Seat) {
			return model.ErrSeatNotInRoom
		}
		if req.Seat == pending.Discarder {
			return model.ErrSelfClaim
		}

		now := r.clock.Now()
		record := model.ClaimRecord{
			Seat:        req.Seat,
			Action:      req.Action,
			Tiles:       append([]model.Tile(nil), req.Tiles...),
			SubmittedAt: now,
			Distance:    room.SeatDistance(pending.Discarder, req.Seat),
		}
		if err := r.validate(ctx, room, record); err != nil {
			return err
		}

		var err error
		result, err = r.resolve(ctx, room, record, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("claim applied",
		slog.String("room_id", id.String()),
		slog.String("seat", string(req.Seat)),
		slog.String("action", string(result.Action)),
		slog.String("winner", string(result.Winner)),
		slog.Bool("robbed_kong", result.RobbedKong))
	return result, nil
}

// validate checks the per-action rules for a claim against the current hand
func (r *Resolver) validate(ctx context.Context, room *model.Room, c model.ClaimRecord) error {
	tile := room.Pending.Tile
	hand := room.Hands[c.Seat]

	switch c.Action {
	case model.ClaimHu:
		win, err := oracle.Check(ctx, r.oracle, room.WinningCandidate(c.Seat, tile))
		if err != nil {
			return err
		}
		if !win {
			return model.ErrInvalidHu
		}
	case model.ClaimGang:
		if model.CountTile(hand, tile) < 3 {
			return model.ErrInsufficientTiles
		}
	case model.ClaimPeng:
		if model.CountTile(hand, tile) < 2 {
			return model.ErrInsufficientTiles
		}
	case model.ClaimChi:
		if c.Distance != 1 {
			return model.ErrChiNotAdjacent
		}
		if len(c.Tiles) != 2 {
			return model.ErrInvalidChi
		}
		if !model.IsRun(append([]model.Tile{tile}, c.Tiles...)) {
			return model.ErrInvalidChi
		}
		if !model.ContainsAll(hand, c.Tiles) {
			return model.ErrTileNotInHand
		}
	default:
		return model.ErrInvalidAction
	}
	return nil
}

// resolve re-evaluates the claim set until a fixed point: a gang winner
// triggers a rob-the-kong scan and any injected hu claims are ranked
// again. Work happens on a copy of the claims, the room is only touched
// once the winner is known to be applicable.
func (r *Resolver) resolve(ctx context.Context, room *model.Room, incoming model.ClaimRecord, now time.Time) (*Result, error) {
	pending := room.Pending
	claims := append([]model.ClaimRecord(nil), pending.Claims...)
	// Records are never removed from a window, so the count is a sequence
	seq := len(claims)
	nextSeq := func() int {
		seq++
		return seq
	}
	incoming.Sequence = nextSeq()
	claims = append(claims, incoming)

	// Claims validated in this critical section
	verified := map[int]bool{incoming.Sequence: true}
	excluded := map[int]bool{}
	scanned := false

	for {
		winner, ok := Select(claims, excluded)
		if !ok {
			// Unreachable while the incoming claim is verified
			return nil, model.ErrNoPendingDiscard
		}

		if !verified[winner.Sequence] {
			if err := r.validate(ctx, room, winner); err != nil {
				if errors.Is(err, model.ErrDependencyUnavailable) {
					return nil, err
				}
				excluded[winner.Sequence] = true
				continue
			}
			verified[winner.Sequence] = true
		}

		if winner.Action == model.ClaimGang && !scanned {
			scanned = true
			robbers, err := r.findRobbers(ctx, room, winner.Seat, claims)
			if err != nil {
				return nil, err
			}
			if len(robbers) > 0 {
				for _, seat := range robbers {
					rec := model.ClaimRecord{
						Seat:        seat,
						Action:      model.ClaimHu,
						SubmittedAt: now,
						Distance:    room.SeatDistance(pending.Discarder, seat),
						Sequence:    nextSeq(),
						Injected:    true,
					}
					verified[rec.Sequence] = true
					claims = append(claims, rec)
				}
				continue
			}
		}

		pending.Claims = claims
		return r.apply(room, winner, scanned && winner.Action == model.ClaimHu), nil
	}
}

// findRobbers returns the seats that would win with the discarded tile,
// excluding the gang claimant, the discarder and seats that already claimed hu
func (r *Resolver) findRobbers(ctx context.Context, room *model.Room, claimant model.Seat, claims []model.ClaimRecord) ([]model.Seat, error) {
	claimedHu := make(map[model.Seat]bool)
	for _, c := range claims {
		if c.Action == model.ClaimHu {
			claimedHu[c.Seat] = true
		}
	}

	var robbers []model.Seat
	for _, seat := range room.Others(room.Pending.Discarder) {
		if seat == claimant || claimedHu[seat] {
			continue
		}
		win, err := oracle.Check(ctx, r.oracle, room.WinningCandidate(seat, room.Pending.Tile))
		if err != nil {
			return nil, err
		}
		if win {
			robbers = append(robbers, seat)
		}
	}
	return robbers, nil
}

// apply performs the winning claim's effects and closes the window
func (r *Resolver) apply(room *model.Room, winner model.ClaimRecord, robbedKong bool) *Result {
	pending := room.Pending
	tile := pending.Tile
	now := r.clock.Now()
	seat := winner.Seat

	result := &Result{Action: winner.Action, Winner: seat}

	if winner.Action == model.ClaimHu {
		room.Status = model.RoomStatusFinished
		room.CurrentPlayer = seat
		room.MustDiscard = false
		room.ClearPending()
		room.UpdatedAt = now

		result.Win = true
		result.RobbedKong = robbedKong
		result.Melds = cloneMelds(room.Melds[seat])

		r.events.Publish(model.Event{
			Type:      model.EventHu,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      seat,
			Payload: model.HuPayload{
				Winner:     seat,
				Discarder:  pending.Discarder,
				Tile:       tile,
				RobbedKong: robbedKong,
			},
		})
		r.logger.Info("hand won on discard",
			slog.String("room_id", room.ID.String()),
			slog.String("seat", string(seat)),
			slog.Int("tile", int(tile)),
			slog.Bool("robbed_kong", robbedKong))
		return result
	}

	var meld model.Meld
	var used []model.Tile
	switch winner.Action {
	case model.ClaimPeng:
		used = []model.Tile{tile, tile}
		meld = model.Meld{Kind: model.MeldPeng, Tiles: []model.Tile{tile, tile, tile}}
	case model.ClaimGang:
		used = []model.Tile{tile, tile, tile}
		meld = model.Meld{Kind: model.MeldGang, Tiles: []model.Tile{tile, tile, tile, tile}}
	case model.ClaimChi:
		used = winner.Tiles
		meld = model.Meld{Kind: model.MeldChi, Tiles: model.SortTiles(append([]model.Tile{tile}, winner.Tiles...))}
	}

	// Validated above, so removal cannot fail
	hand, _ := model.RemoveTiles(room.Hands[seat], used)
	room.Hands[seat] = hand
	room.Melds[seat] = append(room.Melds[seat], meld)
	room.TakeLastDiscard(tile)
	room.ClearPending()
	room.CurrentPlayer = seat
	// Peng and chi discard straight away; gang takes a replacement draw first
	room.MustDiscard = winner.Action != model.ClaimGang
	room.UpdatedAt = now

	result.Melds = cloneMelds(room.Melds[seat])

	r.events.Publish(model.Event{
		Type:      model.EventClaim,
		Timestamp: now,
		RoomID:    room.ID,
		Seat:      seat,
		Payload: model.ClaimPayload{
			Action: winner.Action,
			Tile:   tile,
			Melds:  result.Melds,
		},
	})
	return result
}

// ExpirePending closes every claim window older than timeout and returns
// how many were closed
func (r *Resolver) ExpirePending(ctx context.Context, timeout time.Duration) int {
	now := r.clock.Now()
	cleared := 0

	r.registry.Each(func(room *model.Room) {
		pending := room.Pending
		if pending == nil || now.Sub(pending.CreatedAt) <= timeout {
			return
		}

		room.ClearPending()
		room.UpdatedAt = now
		cleared++

		r.events.Publish(model.Event{
			Type:      model.EventPendingCleared,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      pending.Discarder,
			Payload: model.PendingClearedPayload{
				Reason:    model.ClearReasonTimeout,
				Discarder: pending.Discarder,
				Tile:      pending.Tile,
			},
		})
		r.logger.Info("pending discard expired",
			slog.String("room_id", room.ID.String()),
			slog.String("seat", string(pending.Discarder)),
			slog.Int("tile", int(pending.Tile)),
			slog.Duration("age", now.Sub(pending.CreatedAt)))
	})

	return cleared
}

func cloneMelds(melds []model.Meld) []model.Meld {
	out := make([]model.Meld, len(melds))
	for i, m := range melds {
		out[i] = model.Meld{Kind: m.Kind, Tiles: append([]model.Tile(nil), m.Tiles...)}
	}
	return out
}
