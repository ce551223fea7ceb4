package cli

import (
	"github.com/spf13/cobra"
)

// HealthResult is the health endpoint body plus the server that answered
type HealthResult struct {
	Status string `json:"status"`
	Server string `json:"server"`
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the game server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := HealthResult{Server: cfg.ServerURL}
			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
