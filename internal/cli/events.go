package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput, useWS bool
	var player string

	cmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Stream events from a room",
		Long: `Connect to the room's event stream and print events in real-time.

Events include:
  - player_joined, player_left: Seats changed
  - game_started: Tiles dealt
  - draw, discard: Turn actions
  - claim, hu, pass: Claim window activity
  - pending_cleared: Claim window closed without a win
  - win: Self-drawn win

Uses Server-Sent Events by default, or a WebSocket with --ws.
Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if useWS {
				return streamWebSocket(ctx, args[0], player, jsonOutput)
			}
			return streamEvents(ctx, args[0], player, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().BoolVar(&useWS, "ws", false, "Use the WebSocket endpoint instead of SSE")
	cmd.Flags().StringVar(&player, "player", "", "Seat name to subscribe as")

	return cmd
}

// StreamEvent represents one received event
type StreamEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

// streamURL builds a room stream URL. A ws scheme is derived from the
// server URL when ws is set.
func streamURL(roomID, suffix, player string, ws bool) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(cfg.ServerURL, "/") + roomPath(roomID, suffix))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	if ws {
		u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	}
	if player != "" {
		u.RawQuery = url.Values{"player": {player}}.Encode()
	}
	return u.String(), nil
}

func streamEvents(ctx context.Context, roomID, player string, jsonOutput bool) error {
	target, err := streamURL(roomID, "/events", player, false)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Printf("Connected to room %s\n", roomID)
	}

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "event: ") {
			currentEvent = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		} else if line == "" {
			// End of event
			if currentEvent != "" {
				printEvent(currentEvent, strings.Join(dataLines, "\n"), jsonOutput)
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Println("Disconnected")
	}
	return nil
}

func streamWebSocket(ctx context.Context, roomID, player string, jsonOutput bool) error {
	target, err := streamURL(roomID, "/ws", player, true)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %s", resp.Status)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock ReadMessage on interrupt
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to room %s\n", roomID)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if ctx.Err() != nil || errors.As(err, &closeErr) {
				break
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var envelope struct {
			Type string `json:"type"`
		}
		event := "message"
		if json.Unmarshal(data, &envelope) == nil && envelope.Type != "" {
			event = envelope.Type
		}
		printEvent(event, string(data), jsonOutput)
	}

	if !jsonOutput {
		fmt.Println("Disconnected")
	}
	return nil
}

func printEvent(event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := StreamEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		// Truncate data if it's too long for display
		displayData := data
		if len(displayData) > 100 {
			displayData = displayData[:100] + "..."
		}
		// Remove newlines for cleaner display
		displayData = strings.ReplaceAll(displayData, "\n", " ")
		fmt.Printf("[%s] %s: %s\n", timestamp, event, displayData)
	}
}
