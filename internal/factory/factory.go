package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/config"
	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/dependencies/random"
	redispubsub "github.com/mcoot/mahjonggame-go/internal/pubsub/redis"
	"github.com/mcoot/mahjonggame-go/internal/services/auth"
	"github.com/mcoot/mahjonggame-go/internal/services/bot"
	"github.com/mcoot/mahjonggame-go/internal/services/claim"
	"github.com/mcoot/mahjonggame-go/internal/services/deck"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
	"github.com/mcoot/mahjonggame-go/internal/services/game"
	"github.com/mcoot/mahjonggame-go/internal/services/oracle"
	"github.com/mcoot/mahjonggame-go/internal/services/registry"
	"github.com/mcoot/mahjonggame-go/internal/services/sweeper"
	"github.com/mcoot/mahjonggame-go/internal/web/realtime"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Events         *events.Broadcaster
	Registry       *registry.Registry
	DeckService    *deck.Service
	Oracle         oracle.Oracle
	GameController *game.Controller
	ClaimResolver  *claim.Resolver
	AuthService    *auth.Service
	BotService     *bot.Service
	HubManager     *realtime.HubManager
	Scheduler      *sweeper.Scheduler

	// Publisher mirrors events to Redis. Nil when Redis is not configured.
	Publisher *redispubsub.Publisher

	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// EventQueueSize bounds the broadcaster queue (optional)
	EventQueueSize int
	// RedisConfig enables the Redis event mirror when set
	RedisConfig *redispubsub.Config
	// PendingSchedule and IdleSchedule configure the sweepers (optional)
	PendingSchedule sweeper.Schedule
	IdleSchedule    sweeper.Schedule
}

// Default sweeper schedules
var (
	DefaultPendingSchedule = sweeper.Schedule{Interval: time.Second, Timeout: 10 * time.Second}
	DefaultIdleSchedule    = sweeper.Schedule{Interval: 30 * time.Second, Timeout: 2 * time.Minute}
)

// ConfigFrom builds a factory Config from loaded settings
func ConfigFrom(cfg *config.Config, logger *slog.Logger) Config {
	fc := Config{
		AuthConfig: auth.Config{
			Secret:          cfg.Admin.Secret,
			SessionDuration: cfg.Admin.SessionDuration,
		},
		Logger:          logger,
		EventQueueSize:  cfg.Events.QueueSize,
		PendingSchedule: sweeper.Schedule(cfg.Sweeper.Pending),
		IdleSchedule:    sweeper.Schedule(cfg.Sweeper.Idle),
	}
	if cfg.Redis.URL != "" {
		rc := redispubsub.DefaultConfig()
		rc.URL = cfg.Redis.URL
		if cfg.Redis.ChannelPrefix != "" {
			rc.ChannelPrefix = cfg.Redis.ChannelPrefix
		}
		rc.HistoryLength = cfg.Redis.HistoryLength
		fc.RedisConfig = &rc
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var sinks []events.Sink
	var publisher *redispubsub.Publisher
	if cfg.RedisConfig != nil {
		p, err := redispubsub.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		publisher = p
		sinks = append(sinks, p)
	}

	app, err := newWithDependencies(clock.New(), random.New(), cfg, sinks...)
	if err != nil {
		if publisher != nil {
			_ = publisher.Close()
		}
		return nil, err
	}
	app.Publisher = publisher
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing).
// Events go to the hub manager and the bots, followed by any extra sinks.
func newWithDependencies(clk clock.Clock, rnd random.Random, cfg Config, extraSinks ...events.Sink) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}
	authService, err := auth.New(clk, authCfg)
	if err != nil {
		return nil, err
	}

	pendingSchedule := cfg.PendingSchedule
	if pendingSchedule == (sweeper.Schedule{}) {
		pendingSchedule = DefaultPendingSchedule
	}
	idleSchedule := cfg.IdleSchedule
	if idleSchedule == (sweeper.Schedule{}) {
		idleSchedule = DefaultIdleSchedule
	}
	if err := errors.Join(pendingSchedule.Validate(), idleSchedule.Validate()); err != nil {
		return nil, err
	}

	// Create services
	broadcaster := events.NewBroadcaster(cfg.EventQueueSize, logger)
	hubManager := realtime.NewHubManager(clk, logger)
	roomRegistry := registry.New(broadcaster, clk, logger)
	deckService := deck.New(rnd)
	winOracle := oracle.NewStandard()
	gameController := game.NewController(roomRegistry, deckService, winOracle, broadcaster, clk, logger)
	claimResolver := claim.NewResolver(roomRegistry, winOracle, broadcaster, clk, logger)
	botService := bot.NewService(roomRegistry, gameController, claimResolver, map[string]bot.Strategy{
		bot.StrategyRandom: bot.NewRandomStrategy(rnd),
		bot.StrategyGreedy: bot.GreedyStrategy{},
	}, logger)

	if err := broadcaster.SetSink(append(events.MultiSink{hubManager, botService}, extraSinks...)); err != nil {
		return nil, err
	}

	pending := sweeper.New(sweeper.PendingSweeper, claimResolver.ExpirePending, pendingSchedule, clk, logger)
	idle := sweeper.New(sweeper.IdleSweeper, func(ctx context.Context, timeout time.Duration) int {
		return hubManager.PruneIdle(ctx, timeout) + authService.CleanExpiredSessions()
	}, idleSchedule, clk, logger)

	return &App{
		Clock:          clk,
		Random:         rnd,
		Events:         broadcaster,
		Registry:       roomRegistry,
		DeckService:    deckService,
		Oracle:         winOracle,
		GameController: gameController,
		ClaimResolver:  claimResolver,
		AuthService:    authService,
		BotService:     botService,
		HubManager:     hubManager,
		Scheduler:      sweeper.NewScheduler(logger, pending, idle),
		logger:         logger,
	}, nil
}

// Start launches the event dispatcher, the bot worker and the sweepers
func (a *App) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.Events.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.BotService.Run(ctx)
	}()
	a.Scheduler.StartAll()
}

// Stop halts the sweepers, bots and dispatcher, delivers any queued events,
// then disconnects subscribers and closes Redis
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Scheduler.StopAll()
	if a.cancel != nil {
		a.cancel()
		stopped := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
		a.cancel = nil
	}

	a.Events.Flush(ctx)
	a.HubManager.Close()
	if a.Publisher != nil {
		return a.Publisher.Close()
	}
	return nil
}
