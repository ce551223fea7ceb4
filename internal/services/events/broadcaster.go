package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// DefaultQueueSize is the number of events buffered between mutation and delivery
const DefaultQueueSize = 1024

// ErrSinkAlreadySet is returned when a second delivery sink is registered
var ErrSinkAlreadySet = errors.New("event sink already set")

// Sink receives events for delivery to room subscribers
type Sink interface {
	Deliver(ctx context.Context, evt model.Event) error
}

// SinkFunc adapts a plain function to the Sink interface
type SinkFunc func(ctx context.Context, evt model.Event) error

// Deliver calls f
func (f SinkFunc) Deliver(ctx context.Context, evt model.Event) error {
	return f(ctx, evt)
}

// MultiSink delivers every event to each sink in order
type MultiSink []Sink

// Deliver fans out to all sinks and joins their errors
func (m MultiSink) Deliver(ctx context.Context, evt model.Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Broadcaster decouples state mutation from event delivery.
// Publish never blocks: events go onto a bounded queue drained by Run.
type Broadcaster struct {
	queue  chan model.Event
	logger *slog.Logger

	mu   sync.RWMutex
	sink Sink

	dropped atomic.Int64
}

// NewBroadcaster creates a Broadcaster with the given queue capacity
func NewBroadcaster(queueSize int, logger *slog.Logger) *Broadcaster {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Broadcaster{
		queue:  make(chan model.Event, queueSize),
		logger: logger.With(slog.String("component", "events")),
	}
}

// SetSink registers the delivery sink. It may only be called once.
func (b *Broadcaster) SetSink(sink Sink) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sink != nil {
		return ErrSinkAlreadySet
	}
	b.sink = sink
	return nil
}

func (b *Broadcaster) currentSink() Sink {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sink
}

// Publish enqueues an event. Without a sink it is a silent no-op.
// When the queue is full the event is dropped and counted.
func (b *Broadcaster) Publish(evt model.Event) {
	if b.currentSink() == nil {
		return
	}
	select {
	case b.queue <- evt:
	default:
		b.dropped.Add(1)
		b.logger.Warn("event dropped - queue full",
			slog.String("room_id", evt.RoomID.String()),
			slog.String("type", string(evt.Type)))
	}
}

// Dropped returns how many events were discarded because the queue was full
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}

// Pending returns the number of queued events not yet delivered
func (b *Broadcaster) Pending() int {
	return len(b.queue)
}

// Run delivers queued events until ctx is cancelled. It is the only
// goroutine that talks to the sink.
func (b *Broadcaster) Run(ctx context.Context) {
	b.logger.Info("event dispatcher started")
	for {
		select {
		case evt := <-b.queue:
			b.deliver(ctx, evt)
		case <-ctx.Done():
			b.logger.Info("event dispatcher stopped", slog.Int("undelivered", len(b.queue)))
			return
		}
	}
}

// Flush synchronously delivers everything currently queued. Used on
// shutdown after the dispatcher has stopped.
func (b *Broadcaster) Flush(ctx context.Context) {
	for {
		select {
		case evt := <-b.queue:
			b.deliver(ctx, evt)
		default:
			return
		}
	}
}

func (b *Broadcaster) deliver(ctx context.Context, evt model.Event) {
	sink := b.currentSink()
	if sink == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event delivery panicked",
				slog.String("room_id", evt.RoomID.String()),
				slog.String("type", string(evt.Type)),
				slog.Any("error", r))
		}
	}()

	if err := sink.Deliver(ctx, evt); err != nil {
		b.logger.Warn("event delivery failed",
			slog.String("room_id", evt.RoomID.String()),
			slog.String("type", string(evt.Type)),
			slog.String("error", err.Error()))
	}
}
