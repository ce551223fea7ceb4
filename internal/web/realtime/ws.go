package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and streams a room's events over a websocket.
// Inbound frames only count as activity; a "ping" text frame is answered
// with "pong".
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, seat model.Seat, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(hub, seat, TransportWebSocket)
	hub.Register(client)

	pings := make(chan struct{}, 1)
	go writePump(conn, client, pings)
	readPump(conn, client, pings)
}

// readPump keeps the read deadline alive and unregisters on disconnect
func readPump(conn *websocket.Conn, client *Client, pings chan<- struct{}) {
	defer func() {
		client.hub.Unregister(client)
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		client.Touch()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		client.Touch()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if string(data) == "ping" {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}

// writePump sends queued events and periodic pings until the queue closes
func writePump(conn *websocket.Conn, client *Client, pings <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
				return
			}
		case <-pings:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
