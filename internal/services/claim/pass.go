package claim

import (
	"context"
	"log/slog"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Pass outcomes
const (
	PassResolvedNoClaims = "no_claims"
	PassWaiting          = "waiting_other_passes"
)

// PassResult reports the window state after a pass
type PassResult struct {
	Passes   []model.Seat
	Resolved string
}

// Pass records that seat will not claim the pending discard. Once every
// seat except the discarder has passed the window closes immediately.
func (r *Resolver) Pass(ctx context.Context, id model.RoomID, seat model.Seat) (*PassResult, error) {
	var result *PassResult
	err := r.registry.Update(id, func(room *model.Room) error {
		pending := room.Pending
		if pending == nil {
			return model.ErrNoPendingDiscard
		}
		if !room.HasSeat(seat) {
			return model.ErrSeatNotInRoom
		}
		if seat == pending.Discarder {
			return model.ErrDiscarderCannotPass
		}

		now := r.clock.Now()
		room.Passes[seat] = true
		room.UpdatedAt = now
		passes := room.PassedSeats()

		r.events.Publish(model.Event{
			Type:      model.EventPass,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      seat,
			Payload:   model.PassPayload{Passes: passes},
		})

		if !room.PassesComplete() {
			result = &PassResult{Passes: passes, Resolved: PassWaiting}
			return nil
		}

		room.ClearPending()
		r.events.Publish(model.Event{
			Type:      model.EventPendingCleared,
			Timestamp: now,
			RoomID:    room.ID,
			Seat:      pending.Discarder,
			Payload: model.PendingClearedPayload{
				Reason:    model.ClearReasonAllPassed,
				Discarder: pending.Discarder,
				Tile:      pending.Tile,
			},
		})
		result = &PassResult{Passes: passes, Resolved: PassResolvedNoClaims}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Resolved == PassResolvedNoClaims {
		r.logger.Info("pending discard cleared",
			slog.String("room_id", id.String()),
			slog.String("reason", model.ClearReasonAllPassed))
	}
	return result, nil
}
