package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MJ_SERVER_PORT
const EnvPrefix = "MJ"

// ErrInvalidConfig is returned when a loaded value is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Config is the server's full configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Log     LogConfig     `mapstructure:"log"`
	Events  EventsConfig  `mapstructure:"events"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Sweeper SweeperConfig `mapstructure:"sweeper"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AdminConfig struct {
	// Secret guards admin routes. Empty leaves them open.
	Secret          string        `mapstructure:"secret"`
	SessionDuration time.Duration `mapstructure:"session_duration"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel parses Level, falling back to info
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type EventsConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

type RedisConfig struct {
	// URL enables the Redis event mirror when set
	URL           string `mapstructure:"url"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
	HistoryLength int64  `mapstructure:"history_length"`
}

type SweeperConfig struct {
	Pending ScheduleConfig `mapstructure:"pending"`
	Idle    ScheduleConfig `mapstructure:"idle"`
}

type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("admin.secret", "")
	v.SetDefault("admin.session_duration", time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("events.queue_size", 1024)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.channel_prefix", "mjgame")
	v.SetDefault("redis.history_length", 200)
	v.SetDefault("sweeper.pending.interval", time.Second)
	v.SetDefault("sweeper.pending.timeout", 10*time.Second)
	v.SetDefault("sweeper.idle.interval", 30*time.Second)
	v.SetDefault("sweeper.idle.timeout", 2*time.Minute)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Events.QueueSize <= 0 {
		return fmt.Errorf("%w: events.queue_size must be positive", ErrInvalidConfig)
	}
	for name, s := range map[string]ScheduleConfig{"pending": c.Sweeper.Pending, "idle": c.Sweeper.Idle} {
		if s.Interval <= 0 || s.Timeout <= 0 {
			return fmt.Errorf("%w: sweeper.%s interval and timeout must be positive", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Loader reads configuration from defaults, an optional file and the
// environment, and can watch the file for changes
type Loader struct {
	v      *viper.Viper
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewLoader creates a Loader. path may be empty to skip the config file.
func NewLoader(path string, logger *slog.Logger) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}

	return &Loader{
		v:      v,
		path:   path,
		logger: logger.With(slog.String("component", "config")),
	}
}

// Load reads and validates the configuration
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch calls onChange with the new configuration whenever the config
// file changes. Invalid edits are logged and ignored.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.path == "" {
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()
		if err != nil {
			l.logger.Warn("ignoring config change",
				slog.String("file", e.Name),
				slog.String("error", err.Error()))
			return
		}
		l.logger.Info("config reloaded", slog.String("file", e.Name))
		onChange(cfg)
	})
	l.v.WatchConfig()
}
