package cli

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/mahjonggame-go/internal/api/request"
	"github.com/mcoot/mahjonggame-go/internal/api/response"
	"github.com/mcoot/mahjonggame-go/internal/services/sweeper"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin commands (require --token or a saved admin login)",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newAdminSetHandCmd())
	cmd.AddCommand(newAdminSweepersCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange the admin secret for a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("secret", secret); err != nil {
				return err
			}

			var result response.AdminSession
			if err := client.Post("/api/v1/admin/login", request.AdminLoginRequest{Secret: secret}, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Admin secret (required)")

	return cmd
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the saved admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(http.MethodDelete, "/api/v1/admin/session", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}

func newAdminSetHandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-hand <id> <seat> <tiles>",
		Short: "Overwrite a seat's hand with comma-separated tiles",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tiles, err := parseTiles(args[2])
			if err != nil {
				return err
			}

			path := "/api/v1/admin/rooms/" + url.PathEscape(args[0]) + "/hands/" + url.PathEscape(args[1])
			if err := client.Put(path, request.SetHandRequest{Tiles: tiles}, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Set hand for %s in room %s", args[1], args[0]))
			return nil
		},
	}
}

func newAdminSweepersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweepers",
		Short: "Inspect and reconfigure the cleanup sweepers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []sweeper.Status

			if err := client.Get("/api/v1/admin/sweepers", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.AddCommand(newAdminSweeperGetCmd())
	cmd.AddCommand(newAdminSweeperSetCmd())

	return cmd
}

func newAdminSweeperGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one sweeper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result sweeper.Status

			if err := client.Get("/api/v1/admin/sweepers/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminSweeperSetCmd() *cobra.Command {
	var interval, timeout string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Change a sweeper's interval or timeout and restart it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval == "" && timeout == "" {
				return fmt.Errorf("--interval or --timeout is required")
			}

			req := request.SweeperRequest{Interval: interval, Timeout: timeout}
			var result sweeper.Status

			if err := client.Put("/api/v1/admin/sweepers/"+url.PathEscape(args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&interval, "interval", "", "Tick interval, e.g. 1s")
	cmd.Flags().StringVar(&timeout, "timeout", "", "Age after which entries are cleared, e.g. 10s")

	return cmd
}
