package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

// DefaultJoinTimeout bounds how long Stop waits for an in-flight tick
const DefaultJoinTimeout = 2 * time.Second

// Task runs one sweep and returns how many items it cleared
type Task func(ctx context.Context, timeout time.Duration) int

// Schedule is how often a sweeper wakes and how old an item must be to clear
type Schedule struct {
	Interval time.Duration `json:"interval"`
	Timeout  time.Duration `json:"timeout"`
}

// Validate rejects non-positive durations
func (s Schedule) Validate() error {
	if s.Interval <= 0 || s.Timeout <= 0 {
		return model.ErrInvalidSchedule
	}
	return nil
}

// Status is a snapshot of a sweeper
type Status struct {
	Name        string    `json:"name"`
	Running     bool      `json:"running"`
	Interval    string    `json:"interval"`
	Timeout     string    `json:"timeout"`
	LastRun     time.Time `json:"last_run,omitzero"`
	LastCleared int       `json:"last_cleared"`
}

// Sweeper runs a Task periodically on its own goroutine. The wait between
// ticks is interruptible so Stop takes effect without waiting out the interval.
type Sweeper struct {
	name        string
	task        Task
	clock       clock.Clock
	logger      *slog.Logger
	joinTimeout time.Duration

	mu       sync.Mutex
	schedule Schedule
	stop     chan struct{}
	done     chan struct{}

	statsMu     sync.Mutex
	lastRun     time.Time
	lastCleared int
}

// New creates a stopped Sweeper
func New(name string, task Task, schedule Schedule, clock clock.Clock, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		name:        name,
		task:        task,
		clock:       clock,
		logger:      logger.With(slog.String("component", "sweeper"), slog.String("sweeper", name)),
		joinTimeout: DefaultJoinTimeout,
		schedule:    schedule,
	}
}

// Name returns the sweeper's name
func (s *Sweeper) Name() string {
	return s.name
}

// Start launches the loop. Starting a running sweeper does nothing.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

func (s *Sweeper) startLocked() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.schedule, s.stop, s.done)

	s.logger.Info("sweeper started",
		slog.Duration("interval", s.schedule.Interval),
		slog.Duration("timeout", s.schedule.Timeout))
}

// Stop signals the loop and waits up to the join timeout for it to exit.
// Stopping a stopped sweeper does nothing.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Sweeper) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)

	select {
	case <-s.done:
		s.logger.Info("sweeper stopped")
	case <-time.After(s.joinTimeout):
		s.logger.Warn("sweeper did not exit before join timeout",
			slog.Duration("join_timeout", s.joinTimeout))
	}
	s.stop = nil
	s.done = nil
}

// Restart stops the sweeper and starts it again with schedule
func (s *Sweeper) Restart(schedule Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.schedule = schedule
	s.startLocked()
	return nil
}

// Schedule returns the current schedule
func (s *Sweeper) Schedule() Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule
}

// Running reports whether the loop is active
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Status returns a snapshot of the sweeper
func (s *Sweeper) Status() Status {
	s.mu.Lock()
	schedule := s.schedule
	running := s.stop != nil
	s.mu.Unlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return Status{
		Name:        s.name,
		Running:     running,
		Interval:    schedule.Interval.String(),
		Timeout:     schedule.Timeout.String(),
		LastRun:     s.lastRun,
		LastCleared: s.lastCleared,
	}
}

func (s *Sweeper) loop(schedule Schedule, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(schedule.Interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			s.tick(schedule.Timeout)
			timer.Reset(schedule.Interval)
		}
	}
}

// tick runs the task once. A panic is logged and the loop carries on.
func (s *Sweeper) tick(timeout time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("sweep panicked", slog.String("error", fmt.Sprint(rec)))
		}
	}()

	cleared := s.task(context.Background(), timeout)

	s.statsMu.Lock()
	s.lastRun = s.clock.Now()
	s.lastCleared = cleared
	s.statsMu.Unlock()

	if cleared > 0 {
		s.logger.Debug("sweep cleared items", slog.Int("cleared", cleared))
	}
}
