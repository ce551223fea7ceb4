package redis

import "time"

// Config holds Redis connection and mirror settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// ChannelPrefix namespaces every key and channel
	ChannelPrefix string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// HistoryLength caps the per-room event list, zero disables it
	HistoryLength int64
	HistoryTTL    time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:           "redis://localhost:6379",
		ChannelPrefix: "mjgame",
		PoolSize:      10,
		MinIdleConns:  2,
		HistoryLength: 200,
		HistoryTTL:    24 * time.Hour,
	}
}
