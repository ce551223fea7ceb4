package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
)

// message is one event ready for the wire
type message struct {
	event string
	data  []byte
}

// Hub fans events out to every subscriber of a single room
type Hub struct {
	roomID  model.RoomID
	clients map[*Client]bool
	mu      sync.RWMutex
	clock   clock.Clock
	logger  *slog.Logger

	broadcast chan message
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, clock clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:    roomID,
		clients:   make(map[*Client]bool),
		clock:     clock,
		logger:    logger.With(slog.String("room_id", roomID.String())),
		broadcast: make(chan message, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's fan-out loop
func (h *Hub) Run() {
	for {
		select {
		case msg := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			var failed []*Client
			for client := range h.clients {
				select {
				case client.send <- msg:
					sentCount++
				default:
					failed = append(failed, client)
				}
			}
			h.mu.RUnlock()
			if len(failed) > 0 {
				h.dropClients(failed)
				h.logger.Warn("broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", len(failed)))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// dropClients removes subscribers whose queue was full. Closing the queue
// ends their stream so they reconnect and resync from a snapshot.
func (h *Hub) dropClients(failed []*Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range failed {
		if _, ok := h.clients[client]; !ok {
			continue
		}
		delete(h.clients, client)
		close(client.send)
		h.logger.Warn("subscriber dropped - buffer full",
			slog.String("client_id", client.id),
			slog.String("seat", string(client.seat)))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("subscriber registered",
		slog.String("client_id", client.id),
		slog.String("transport", client.transport),
		slog.String("seat", string(client.seat)),
		slog.Int("total_clients", clientCount))
}

// Unregister removes a client from the hub and closes its queue
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("subscriber unregistered",
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", h.clock.Now().Sub(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Broadcast queues an event for every client
func (h *Hub) Broadcast(event string, data []byte) {
	select {
	case h.broadcast <- message{event: event, data: data}:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// PruneIdle disconnects clients with no activity since cutoff
func (h *Hub) PruneIdle(cutoff time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	pruned := 0
	for client := range h.clients {
		if client.LastActive().Before(cutoff) {
			delete(h.clients, client)
			close(client.send)
			pruned++
		}
	}
	return pruned
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages hubs for all rooms and is the broadcaster's sink
type HubManager struct {
	hubs   map[model.RoomID]*Hub
	mu     sync.RWMutex
	clock  clock.Clock
	logger *slog.Logger
}

// Ensure HubManager can receive events
var _ events.Sink = (*HubManager)(nil)

// NewHubManager creates a new HubManager
func NewHubManager(clock clock.Clock, logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomID]*Hub),
		clock:  clock,
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.clock, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// HubCount returns the number of live hubs
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}

// Deliver encodes evt and queues it on its room's hub. Rooms nobody is
// watching have no hub and the event is discarded.
func (m *HubManager) Deliver(_ context.Context, evt model.Event) error {
	hub := m.GetHub(evt.RoomID)
	if hub == nil {
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	hub.Broadcast(string(evt.Type), data)
	return nil
}

// PruneIdle disconnects subscribers inactive for longer than timeout and
// removes hubs left empty. It returns the number of subscribers pruned.
func (m *HubManager) PruneIdle(_ context.Context, timeout time.Duration) int {
	cutoff := m.clock.Now().Add(-timeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	removed := 0
	for id, hub := range m.hubs {
		pruned += hub.PruneIdle(cutoff)
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	if pruned > 0 || removed > 0 {
		m.logger.Info("idle subscribers pruned",
			slog.Int("pruned", pruned),
			slog.Int("hubs_removed", removed))
	}
	return pruned
}

// Close shuts down every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}
