package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
)

func newClaimCmd() *cobra.Command {
	var player, tiles string

	cmd := &cobra.Command{
		Use:   "claim <id> <chi|peng|gang|hu>",
		Short: "Claim the pending discard",
		Long: `Claim the pending discard. The highest-priority claim wins:
hu beats gang beats peng beats chi, then the seat closest after the
discarder, then the earliest claim.

Chi needs the two hand tiles completing the run, e.g. --tiles 4,6.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ClaimRequest{Player: player, Action: args[1]}
			if tiles != "" {
				parsed, err := parseTiles(tiles)
				if err != nil {
					return err
				}
				req.Tiles = parsed
			}

			var result response.ClaimResponse
			if err := client.Post(roomPath(args[0], "/claim"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Seat name (required)")
	cmd.Flags().StringVar(&tiles, "tiles", "", "Comma-separated hand tiles for chi")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newPassCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "pass <id>",
		Short: "Pass on the pending discard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PassResponse

			if err := client.Post(roomPath(args[0], "/pass"), request.SeatRequest{Player: player}, &result); err != nil {
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
