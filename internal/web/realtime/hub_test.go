package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/mocks"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/testutil"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "discard",
			data:      `{"tile":5}`,
			expected:  "event: discard\ndata: {\"tile\":5}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "claim",
			data:      "{\n  \"action\": \"chi\"\n}",
			expected:  "event: claim\ndata: {\ndata:   \"action\": \"chi\"\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func newTestHub(t *testing.T) (*Hub, *mocks.MockClock) {
	clock := mocks.NewMockClock(testNow)
	hub := NewHub(1, clock, testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub, clock
}

func receive(t *testing.T, c *Client) message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return message{}
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub, _ := newTestHub(t)

	clients := []*Client{
		NewClient(hub, "A", TransportSSE),
		NewClient(hub, "B", TransportWebSocket),
		NewClient(hub, "", TransportSSE),
	}
	for _, c := range clients {
		hub.Register(c)
	}
	require.Equal(t, 3, hub.ClientCount())

	hub.Broadcast("discard", []byte(`{"tile":5}`))

	for _, c := range clients {
		msg := receive(t, c)
		assert.Equal(t, "discard", msg.event)
		assert.Equal(t, `{"tile":5}`, string(msg.data))
	}
}

func TestHub_UnregisterClosesQueue(t *testing.T) {
	hub, _ := newTestHub(t)
	client := NewClient(hub, "A", TransportSSE)
	hub.Register(client)

	hub.Unregister(client)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.ClientCount())
	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHub_FullClientBufferIsDropped(t *testing.T) {
	hub, _ := newTestHub(t)
	slow := NewClient(hub, "A", TransportSSE)
	fast := NewClient(hub, "B", TransportSSE)
	hub.Register(slow)
	hub.Register(fast)

	for i := 0; i < sendBufferSize; i++ {
		slow.send <- message{event: "filler"}
	}

	hub.Broadcast("draw", []byte("{}"))

	assert.Equal(t, "draw", receive(t, fast).event)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// The slow queue keeps what it had, then reports closed
	for i := 0; i < sendBufferSize; i++ {
		msg := <-slow.send
		assert.Equal(t, "filler", msg.event)
	}
	_, ok := <-slow.send
	assert.False(t, ok)

	// Later events still reach the remaining subscriber
	hub.Broadcast("discard", []byte("{}"))
	assert.Equal(t, "discard", receive(t, fast).event)
}

func TestHub_PruneIdle(t *testing.T) {
	hub, clock := newTestHub(t)
	stale := NewClient(hub, "A", TransportWebSocket)
	hub.Register(stale)

	clock.Advance(time.Minute)
	fresh := NewClient(hub, "B", TransportWebSocket)
	hub.Register(fresh)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, hub.PruneIdle(clock.Now().Add(-90*time.Second)))
	assert.Equal(t, 1, hub.ClientCount())

	_, ok := <-stale.send
	assert.False(t, ok)
}

func TestClient_TouchKeepsAlive(t *testing.T) {
	hub, clock := newTestHub(t)
	client := NewClient(hub, "A", TransportWebSocket)
	hub.Register(client)

	clock.Advance(5 * time.Minute)
	client.Touch()

	assert.True(t, clock.Now().Equal(client.LastActive()))
	assert.Equal(t, 0, hub.PruneIdle(clock.Now().Add(-time.Minute)))
	assert.NotEmpty(t, client.ID())
}

func TestHubManager_DeliverRoutesByRoom(t *testing.T) {
	manager := NewHubManager(mocks.NewMockClock(testNow), testutil.NopLogger())
	defer manager.Close()

	first := NewClient(manager.GetOrCreateHub(1), "A", TransportSSE)
	manager.GetHub(1).Register(first)
	second := NewClient(manager.GetOrCreateHub(2), "A", TransportSSE)
	manager.GetHub(2).Register(second)

	evt := model.Event{
		Type:      model.EventDiscard,
		Timestamp: testNow,
		RoomID:    2,
		Seat:      "A",
		Payload:   model.DiscardPayload{Tile: 5, Pending: true, NextPlayer: "B"},
	}
	require.NoError(t, manager.Deliver(context.Background(), evt))

	msg := receive(t, second)
	assert.Equal(t, "discard", msg.event)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.data, &decoded))
	assert.Equal(t, "discard", decoded["type"])
	assert.Equal(t, float64(2), decoded["room_id"])
	assert.Equal(t, "A", decoded["player"])

	assert.Empty(t, first.send)
}

func TestHubManager_DeliverWithoutSubscribers(t *testing.T) {
	manager := NewHubManager(mocks.NewMockClock(testNow), testutil.NopLogger())

	err := manager.Deliver(context.Background(), model.Event{Type: model.EventDraw, RoomID: 9})
	assert.NoError(t, err)
	assert.Equal(t, 0, manager.HubCount())
}

func TestHubManager_PruneIdleRemovesEmptyHubs(t *testing.T) {
	clock := mocks.NewMockClock(testNow)
	manager := NewHubManager(clock, testutil.NopLogger())
	defer manager.Close()

	hub := manager.GetOrCreateHub(1)
	hub.Register(NewClient(hub, "A", TransportWebSocket))
	manager.GetOrCreateHub(2)

	clock.Advance(3 * time.Minute)
	pruned := manager.PruneIdle(context.Background(), 2*time.Minute)

	assert.Equal(t, 1, pruned)
	assert.Equal(t, 0, manager.HubCount())
}
