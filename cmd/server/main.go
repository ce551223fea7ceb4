package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/mcoot/mahjonggame-go/internal/api"
	"github.com/mcoot/mahjonggame-go/internal/config"
	"github.com/mcoot/mahjonggame-go/internal/factory"
	"github.com/mcoot/mahjonggame-go/internal/services/sweeper"
	"github.com/mcoot/mahjonggame-go/internal/web"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the mahjong game server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv("MJ_CONFIG")
			}
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (env: MJ_CONFIG)")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// Set up logging with JSON output
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	loader := config.NewLoader(configPath, logger)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		return err
	}
	level.Set(cfg.Log.SlogLevel())

	// Create application factory
	app, err := factory.New(factory.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	apiCfg := api.RouterConfig{
		Logger:         logger,
		Registry:       app.Registry,
		GameController: app.GameController,
		ClaimResolver:  app.ClaimResolver,
		AuthService:    app.AuthService,
		Scheduler:      app.Scheduler,
		HubManager:     app.HubManager,
		BotService:     app.BotService,
	}
	if app.Publisher != nil {
		apiCfg.History = app.Publisher
	}

	// API routes first, pages take the rest
	router := mux.NewRouter()
	api.Mount(router, apiCfg)
	web.Mount(router, web.RouterConfig{
		Logger:    logger,
		Registry:  app.Registry,
		StaticDir: findStaticDir(),
	})

	app.Start()

	loader.Watch(func(next *config.Config) {
		level.Set(next.Log.SlogLevel())
		for name, s := range map[string]config.ScheduleConfig{
			sweeper.PendingSweeper: next.Sweeper.Pending,
			sweeper.IdleSweeper:    next.Sweeper.Idle,
		} {
			if _, err := app.Scheduler.Reconfigure(name, s.Interval, s.Timeout); err != nil {
				logger.Warn("failed to apply sweeper config",
					slog.String("sweeper", name),
					slog.String("error", err.Error()))
			}
		}
	})

	server := api.NewServer(router, api.ServerConfigFrom(cfg.Server), logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Bool("redis", app.Publisher != nil))

	// Wait for shutdown or error
	var runErr error
	select {
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("server error", slog.String("error", runErr.Error()))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			runErr = err
		}
	}

	if err := app.Stop(context.Background()); err != nil {
		logger.Error("failed to stop application", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return runErr
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	// Try common locations
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
