package sweeper

import (
	"log/slog"
	"sort"
	"time"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Sweeper names
const (
	PendingSweeper = "pending"
	IdleSweeper    = "idle"
)

// Scheduler owns the named sweepers and applies reconfiguration to them
type Scheduler struct {
	sweepers map[string]*Sweeper
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler over the given sweepers
func NewScheduler(logger *slog.Logger, sweepers ...*Sweeper) *Scheduler {
	m := make(map[string]*Sweeper, len(sweepers))
	for _, sw := range sweepers {
		m[sw.Name()] = sw
	}
	return &Scheduler{
		sweepers: m,
		logger:   logger.With(slog.String("component", "scheduler")),
	}
}

// Get returns the named sweeper
func (s *Scheduler) Get(name string) (*Sweeper, error) {
	sw, ok := s.sweepers[name]
	if !ok {
		return nil, model.ErrSweeperNotFound
	}
	return sw, nil
}

// StartAll starts every sweeper
func (s *Scheduler) StartAll() {
	for _, name := range s.names() {
		s.sweepers[name].Start()
	}
}

// StopAll stops every sweeper
func (s *Scheduler) StopAll() {
	for _, name := range s.names() {
		s.sweepers[name].Stop()
	}
}

// Reconfigure restarts the named sweeper with a new interval and timeout.
// A zero duration keeps the current value. Rooms and open claim windows
// are untouched; a shorter timeout applies to existing windows on the
// next tick.
func (s *Scheduler) Reconfigure(name string, interval, timeout time.Duration) (Status, error) {
	sw, err := s.Get(name)
	if err != nil {
		return Status{}, err
	}
	if interval < 0 || timeout < 0 {
		return Status{}, model.ErrInvalidSchedule
	}

	schedule := sw.Schedule()
	if interval > 0 {
		schedule.Interval = interval
	}
	if timeout > 0 {
		schedule.Timeout = timeout
	}
	if err := sw.Restart(schedule); err != nil {
		return Status{}, err
	}

	s.logger.Info("sweeper reconfigured",
		slog.String("sweeper", name),
		slog.Duration("interval", schedule.Interval),
		slog.Duration("timeout", schedule.Timeout))
	return sw.Status(), nil
}

// Status returns every sweeper's status ordered by name
func (s *Scheduler) Status() []Status {
	names := s.names()
	out := make([]Status, len(names))
	for i, name := range names {
		out[i] = s.sweepers[name].Status()
	}
	return out
}

func (s *Scheduler) names() []string {
	names := make([]string, 0, len(s.sweepers))
	for name := range s.sweepers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
