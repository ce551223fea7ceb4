package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/sweeper"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Room:
		o.printRoom(v)
	case response.StartResponse:
		fmt.Printf("Game started: %s\n", joinSeats(v.Players))
		fmt.Printf("Dealer: %s\n", v.Dealer)
		fmt.Printf("Current player: %s\n", v.CurrentPlayer)
		fmt.Printf("Deck: %d tiles\n", v.DeckCount)
	case response.DrawResponse:
		fmt.Printf("Drew: %d\n", v.Tile)
		fmt.Printf("Hand: %s\n", formatTiles(v.Hand))
		if v.Win {
			fmt.Println("Self-drawn win!")
		}
	case response.DiscardResponse:
		fmt.Printf("Discarded: %d\n", v.Tile)
		if v.Pending {
			fmt.Println("Claim window open")
		} else {
			fmt.Printf("Next player: %s\n", v.NextPlayer)
		}
	case response.ClaimResponse:
		o.printClaim(v)
	case response.PassResponse:
		fmt.Printf("Passed: %s\n", joinSeats(v.Passes))
		if v.Resolved != "" {
			fmt.Printf("Resolved: %s\n", v.Resolved)
		}
	case response.CheckWinResponse:
		if v.Win {
			fmt.Println("Winning hand")
		} else {
			fmt.Println("Not a winning hand")
		}
	case response.HistoryResponse:
		for _, e := range v.Events {
			fmt.Println(string(e))
		}
	case response.AdminSession:
		fmt.Printf("Token: %s\n", v.Token)
		fmt.Printf("Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04:05"))
	case sweeper.Status:
		o.printSweeper(v)
	case []sweeper.Status:
		for _, s := range v {
			o.printSweeper(s)
		}
	case HealthResult:
		fmt.Printf("Server: %s\n", v.Server)
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printRoom(r response.Room) {
	fmt.Printf("Room: %d\n", r.ID)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Players (%d/%d):\n", len(r.Players), r.MaxPlayers)
	for _, seat := range r.Players {
		var tags []string
		if seat == r.Dealer && r.Status != model.RoomStatusWaiting {
			tags = append(tags, "dealer")
		}
		if seat == r.CurrentPlayer {
			if r.MustDiscard {
				tags = append(tags, "to discard")
			} else {
				tags = append(tags, "to play")
			}
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s: %d tiles%s\n", seat, r.HandCounts[seat], tagStr)
		for _, m := range r.Melds[seat] {
			fmt.Printf("      %s %s\n", m.Kind, formatTiles(m.Tiles))
		}
	}

	if r.Status != model.RoomStatusWaiting {
		fmt.Printf("Deck: %d tiles\n", r.DeckCount)
	}
	if len(r.Discards) > 0 {
		parts := make([]string, len(r.Discards))
		for i, d := range r.Discards {
			parts[i] = fmt.Sprintf("%s:%d", d.Seat, d.Tile)
		}
		fmt.Printf("Discards: %s\n", strings.Join(parts, " "))
	}
	if r.Pending != nil {
		fmt.Printf("Pending: %d from %s\n", r.Pending.Tile, r.Pending.Discarder)
		if len(r.Passes) > 0 {
			fmt.Printf("Passed: %s\n", joinSeats(r.Passes))
		}
	}
	if r.Viewer != "" {
		fmt.Printf("\nYour hand (%s): %s\n", r.Viewer, formatTiles(r.Hand))
	}
}

func (o *Output) printClaim(c response.ClaimResponse) {
	switch {
	case c.Win && c.RobbedKong:
		fmt.Printf("%s wins by robbing the kong!\n", c.Winner)
	case c.Win:
		fmt.Printf("%s wins on the discard!\n", c.Winner)
	default:
		fmt.Printf("%s claimed %s\n", c.Winner, c.Action)
	}
	for _, m := range c.Melds {
		fmt.Printf("  %s %s\n", m.Kind, formatTiles(m.Tiles))
	}
}

func (o *Output) printSweeper(s sweeper.Status) {
	state := "stopped"
	if s.Running {
		state = "running"
	}
	fmt.Printf("%s: %s, every %s, timeout %s", s.Name, state, s.Interval, s.Timeout)
	if !s.LastRun.IsZero() {
		fmt.Printf(", last run %s cleared %d", s.LastRun.Format("15:04:05"), s.LastCleared)
	}
	fmt.Println()
}

func formatTiles(tiles []model.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = strconv.Itoa(int(t))
	}
	return strings.Join(parts, " ")
}

func joinSeats(seats []model.Seat) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
