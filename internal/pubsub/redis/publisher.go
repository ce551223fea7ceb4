package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/services/events"
)

// Publisher mirrors room events into Redis so other processes can follow
// a room. Each event is published on the room's channel and appended to
// a capped history list.
type Publisher struct {
	client *redis.Client
	cfg    Config
}

// Ensure Publisher can receive events
var _ events.Sink = (*Publisher)(nil)

// New connects to Redis and creates a Publisher
func New(cfg Config) (*Publisher, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Publisher with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Publisher {
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = DefaultConfig().ChannelPrefix
	}
	return &Publisher{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Deliver publishes evt and records it in the room's history
func (p *Publisher) Deliver(ctx context.Context, evt model.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, eventsChannel(p.cfg.ChannelPrefix, evt.RoomID), data)
	if p.cfg.HistoryLength > 0 {
		key := historyKey(p.cfg.ChannelPrefix, evt.RoomID)
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, -p.cfg.HistoryLength, -1)
		if p.cfg.HistoryTTL > 0 {
			pipe.Expire(ctx, key, p.cfg.HistoryTTL)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

// History returns up to limit of the room's most recent events, oldest first
func (p *Publisher) History(ctx context.Context, id model.RoomID, limit int64) ([]json.RawMessage, error) {
	if limit <= 0 {
		limit = p.cfg.HistoryLength
	}
	items, err := p.client.LRange(ctx, historyKey(p.cfg.ChannelPrefix, id), -limit, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, len(items))
	for i, item := range items {
		out[i] = json.RawMessage(item)
	}
	return out, nil
}

// Subscribe follows a room's event channel. The caller must close the
// returned subscription.
func (p *Publisher) Subscribe(ctx context.Context, id model.RoomID) *redis.PubSub {
	return p.client.Subscribe(ctx, eventsChannel(p.cfg.ChannelPrefix, id))
}

// Ping checks the connection
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
