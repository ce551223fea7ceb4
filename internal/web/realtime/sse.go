package realtime

import (
	"net/http"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// ServeSSE streams a room's events to the client as server-sent events
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, seat model.Seat) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, seat, TransportSSE)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("retry: 3000\n\n"))
	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected","client_id":"`+client.id+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				// Hub closed, pruned or dropped the client
				return
			}
			if _, err := w.Write(formatSSEMessage(msg.event, string(msg.data))); err != nil {
				return
			}
			flusher.Flush()
			client.Touch()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
			client.Touch()

		case <-r.Context().Done():
			return
		}
	}
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	msg := "event: " + eventName + "\n"
	for _, line := range splitLines(data) {
		msg += "data: " + line + "\n"
	}
	msg += "\n"
	return []byte(msg)
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	var lines []string
	var current string
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}
