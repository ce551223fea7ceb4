package realtime

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Transport names
const (
	TransportSSE       = "sse"
	TransportWebSocket = "ws"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong from a websocket peer
	pongWait = 120 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one subscriber to a room's events
type Client struct {
	id          string
	hub         *Hub
	seat        model.Seat
	transport   string
	send        chan message
	connectedAt time.Time
	lastActive  atomic.Int64
}

// NewClient creates a new subscriber. seat may be empty for spectators.
func NewClient(hub *Hub, seat model.Seat, transport string) *Client {
	now := hub.clock.Now()
	c := &Client{
		id:          uuid.NewString(),
		hub:         hub,
		seat:        seat,
		transport:   transport,
		send:        make(chan message, sendBufferSize),
		connectedAt: now,
	}
	c.lastActive.Store(now.UnixNano())
	return c
}

// ID returns the subscriber's unique ID
func (c *Client) ID() string {
	return c.id
}

// Touch records activity from the peer
func (c *Client) Touch() {
	c.lastActive.Store(c.hub.clock.Now().UnixNano())
}

// LastActive returns when the peer was last heard from
func (c *Client) LastActive() time.Time {
	return time.Unix(0, c.lastActive.Load()).UTC()
}
