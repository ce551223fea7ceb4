package registry

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
)

// Registry owns the room table. Every read or write of any room happens
// while holding its single mutex.
type Registry struct {
	mu     sync.Mutex
	rooms  map[model.RoomID]*model.Room
	nextID model.RoomID

	events *events.Broadcaster
	clock  clock.Clock
	logger *slog.Logger
}

// New creates an empty Registry
func New(events *events.Broadcaster, clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[model.RoomID]*model.Room),
		events: events,
		clock:  clock,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Create opens a waiting room seating only the creator. A maxPlayers of
// zero selects the default capacity.
func (r *Registry) Create(ctx context.Context, seat model.Seat, maxPlayers int) (*model.RoomView, error) {
	seat = model.Seat(strings.TrimSpace(string(seat)))
	if seat == "" {
		return nil, model.ErrInvalidSeat
	}
	if maxPlayers == 0 {
		maxPlayers = model.DefaultPlayers
	}
	if maxPlayers < model.MinPlayers || maxPlayers > model.MaxPlayers {
		return nil, model.ErrInvalidMaxPlayers
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	room := model.NewRoom(r.nextID, seat, maxPlayers, r.clock.Now())
	r.rooms[room.ID] = room

	r.logger.Info("room created",
		slog.String("room_id", room.ID.String()),
		slog.String("seat", string(seat)),
		slog.Int("max_players", maxPlayers))

	return room.View(seat), nil
}

// Join adds a seat to a waiting room
func (r *Registry) Join(ctx context.Context, id model.RoomID, seat model.Seat) (*model.RoomView, error) {
	seat = model.Seat(strings.TrimSpace(string(seat)))
	if seat == "" {
		return nil, model.ErrInvalidSeat
	}

	var view *model.RoomView
	err := r.Update(id, func(room *model.Room) error {
		if room.Status != model.RoomStatusWaiting {
			return model.ErrAlreadyStarted
		}
		if room.HasSeat(seat) {
			return model.ErrDuplicateSeat
		}
		if room.IsFull() {
			return model.ErrRoomFull
		}

		room.AddSeat(seat)
		room.UpdatedAt = r.clock.Now()

		r.events.Publish(model.Event{
			Type:      model.EventPlayerJoined,
			Timestamp: room.UpdatedAt,
			RoomID:    room.ID,
			Seat:      seat,
			Payload:   model.SeatPayload{Seats: append([]model.Seat(nil), room.Seats...)},
		})
		view = room.View(seat)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("seat joined room",
		slog.String("room_id", id.String()),
		slog.String("seat", string(seat)))
	return view, nil
}

// Leave removes a seat from a room that is not mid-game
func (r *Registry) Leave(ctx context.Context, id model.RoomID, seat model.Seat) (*model.RoomView, error) {
	var view *model.RoomView
	err := r.Update(id, func(room *model.Room) error {
		if !room.HasSeat(seat) {
			return model.ErrSeatNotInRoom
		}
		if room.Status == model.RoomStatusPlaying {
			return model.ErrGameInProgress
		}

		room.RemoveSeat(seat)
		room.UpdatedAt = r.clock.Now()

		r.events.Publish(model.Event{
			Type:      model.EventPlayerLeft,
			Timestamp: room.UpdatedAt,
			RoomID:    room.ID,
			Seat:      seat,
			Payload:   model.SeatPayload{Seats: append([]model.Seat(nil), room.Seats...)},
		})
		view = room.View("")
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("seat left room",
		slog.String("room_id", id.String()),
		slog.String("seat", string(seat)))
	return view, nil
}

// Get returns a snapshot of a room for viewer
func (r *Registry) Get(ctx context.Context, id model.RoomID, viewer model.Seat) (*model.RoomView, error) {
	var view *model.RoomView
	err := r.Update(id, func(room *model.Room) error {
		view = room.View(viewer)
		return nil
	})
	return view, err
}

// Update runs fn on a room while holding the table lock.
// fn must validate before mutating so a returned error leaves the room untouched.
func (r *Registry) Update(id model.RoomID, fn func(room *model.Room) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return model.ErrRoomNotFound
	}
	return fn(room)
}

// Each runs fn on every room in ID order while holding the table lock
func (r *Registry) Each(fn func(room *model.Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]model.RoomID, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fn(r.rooms[id])
	}
}

// List returns a spectator snapshot of every room in ID order
func (r *Registry) List(ctx context.Context) []*model.RoomView {
	var views []*model.RoomView
	r.Each(func(room *model.Room) {
		views = append(views, room.View(""))
	})
	return views
}

// Exists checks if a room exists
func (r *Registry) Exists(id model.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[id]
	return ok
}

// Count returns the number of rooms in the table
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
