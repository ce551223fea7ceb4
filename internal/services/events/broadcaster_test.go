package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/testutil"
)

// recordingSink collects delivered events
type recordingSink struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (s *recordingSink) Deliver(_ context.Context, evt model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return s.err
}

func (s *recordingSink) types() []model.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

func TestPublishWithoutSinkIsNoop(t *testing.T) {
	b := NewBroadcaster(1, testutil.NopLogger())

	b.Publish(model.Event{Type: model.EventDiscard, RoomID: 1})
	b.Publish(model.Event{Type: model.EventDiscard, RoomID: 1})

	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, int64(0), b.Dropped())
}

func TestSetSinkOnlyOnce(t *testing.T) {
	b := NewBroadcaster(1, testutil.NopLogger())

	require.NoError(t, b.SetSink(&recordingSink{}))
	assert.ErrorIs(t, b.SetSink(&recordingSink{}), ErrSinkAlreadySet)
}

func TestRunDeliversInPublishOrder(t *testing.T) {
	b := NewBroadcaster(16, testutil.NopLogger())
	sink := &recordingSink{}
	require.NoError(t, b.SetSink(sink))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	b.Publish(model.Event{Type: model.EventDiscard, RoomID: 1})
	b.Publish(model.Event{Type: model.EventPass, RoomID: 1})
	b.Publish(model.Event{Type: model.EventPendingCleared, RoomID: 1})

	assert.Eventually(t, func() bool { return len(sink.types()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []model.EventType{model.EventDiscard, model.EventPass, model.EventPendingCleared}, sink.types())
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	b := NewBroadcaster(1, testutil.NopLogger())
	require.NoError(t, b.SetSink(&recordingSink{}))

	// No dispatcher running, so the second event has nowhere to go
	b.Publish(model.Event{Type: model.EventDiscard, RoomID: 1})
	b.Publish(model.Event{Type: model.EventDiscard, RoomID: 1})

	assert.Equal(t, 1, b.Pending())
	assert.Equal(t, int64(1), b.Dropped())
}

func TestRunSurvivesFailingAndPanickingSinks(t *testing.T) {
	b := NewBroadcaster(16, testutil.NopLogger())
	good := &recordingSink{}
	calls := 0
	flaky := SinkFunc(func(context.Context, model.Event) error {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return errors.New("subscriber gone")
	})
	require.NoError(t, b.SetSink(MultiSink{flaky, good}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	b.Publish(model.Event{Type: model.EventDiscard, RoomID: 1})
	b.Publish(model.Event{Type: model.EventPass, RoomID: 1})

	// The panic on the first event skips the rest of that fan-out
	assert.Eventually(t, func() bool { return len(good.types()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []model.EventType{model.EventPass}, good.types())
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	sink := MultiSink{&recordingSink{err: errA}, &recordingSink{err: errB}, &recordingSink{}}

	err := sink.Deliver(context.Background(), model.Event{Type: model.EventWin})

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}
