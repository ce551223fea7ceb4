package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomHistoryCmd())
	cmd.AddCommand(newRoomAddBotCmd())
	cmd.AddCommand(newRoomRemoveBotCmd())

	return cmd
}

func roomPath(id string, suffix string) string {
	return "/api/v1/rooms/" + url.PathEscape(id) + suffix
}

func newRoomCreateCmd() *cobra.Command {
	var player string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room seated with one player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateRoomRequest{Player: player, MaxPlayers: maxPlayers}
			var result response.Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Seat name of the creator (required)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Seats in the room, 2 to 4 (default: 4)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	var viewer string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get room state",
		Long:  "Get room state. Only the viewer's own hand is shown; other seats are shown as tile counts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := roomPath(args[0], "")
			if viewer != "" {
				path += "?viewer=" + url.QueryEscape(viewer)
			}

			var result response.Room
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&viewer, "viewer", "", "Seat whose hand to show")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "join <id>",
		Short: "Join a waiting room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room

			if err := client.Post(roomPath(args[0], "/join"), request.SeatRequest{Player: player}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Seat name (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a room before the game starts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room

			if err := client.Post(roomPath(args[0], "/leave"), request.SeatRequest{Player: player}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Seat name (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newRoomHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show recent room events recorded in Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := roomPath(args[0], "/history")
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result response.HistoryResponse
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events (default: server limit)")

	return cmd
}

func newRoomAddBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "add-bot <id>",
		Short: "Seat a bot in a waiting room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room

			if err := client.Post(roomPath(args[0], "/bots"), request.AddBotRequest{Strategy: strategy}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy: random or greedy (default: random)")

	return cmd
}

func newRoomRemoveBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-bot <id> <seat>",
		Short: "Remove a bot from a waiting room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room

			if err := client.Delete(roomPath(args[0], "/bots/"+url.PathEscape(args[1])), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// requireFlag returns an error naming a missing string flag
func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
