package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Turn commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameDrawCmd())
	cmd.AddCommand(newGameDiscardCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Shuffle, deal and start the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.StartResponse

			if err := client.Post(roomPath(args[0], "/start"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDrawCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "draw <id>",
		Short: "Draw a tile on your turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.DrawResponse

			if err := client.Post(roomPath(args[0], "/draw"), request.SeatRequest{Player: player}, &result); err != nil {
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

func newGameDiscardCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "discard <id> <tile>",
		Short: "Discard a tile from your hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tile, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid tile %q", args[1])
			}

			req := request.DiscardRequest{Player: player, Tile: tile}
			var result response.DiscardResponse

			if err := client.Post(roomPath(args[0], "/discard"), req, &result); err != nil {
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

func newCheckWinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-win <tiles>",
		Short: "Check whether 14 comma-separated tiles form a winning hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tiles, err := parseTiles(args[0])
			if err != nil {
				return err
			}

			var result response.CheckWinResponse
			if err := client.Post("/api/v1/check_win", request.CheckWinRequest{Tiles: tiles}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// parseTiles parses a comma-separated tile list into request codes
func parseTiles(s string) ([]int, error) {
	tiles, err := model.ParseTiles(s)
	if err != nil {
		return nil, fmt.Errorf("invalid tiles %q: %w", s, err)
	}
	out := make([]int, len(tiles))
	for i, t := range tiles {
		out[i] = int(t)
	}
	return out, nil
}
