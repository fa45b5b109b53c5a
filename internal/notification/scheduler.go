package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"MyPlants/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start on a scheduler that is already running.
var ErrAlreadyStarted = errors.New("notification scheduler already started")

// Cycler runs one reminder cycle. *NotificationService implements it.
type Cycler interface {
	RunCycle(ctx context.Context) (Result, error)
}

// State is the scheduler lifecycle state.
type State int

const (
	StateIdle State = iota
	StateScheduled
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// NotificationScheduler triggers a cycle at every wall-clock multiple of its
// interval, e.g. at the top of each hour for 1h.
type NotificationScheduler struct {
	cycler   Cycler
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

func NewNotificationScheduler(cycler Cycler, cfg *config.Config, log *zap.Logger) *NotificationScheduler {
	interval := cfg.Notify.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &NotificationScheduler{
		cycler:   cycler,
		interval: interval,
		log:      log.Named("scheduler"),
		now:      time.Now,
	}
}

// State returns the current lifecycle state.
func (s *NotificationScheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start arms the trigger. ctx only carries values; cancelling it does not stop
// the scheduler, Stop does.
func (s *NotificationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.state = StateScheduled
	s.cancel = cancel
	s.done = done

	s.log.Info("notification scheduler started", zap.Duration("interval", s.interval))
	go s.loop(loopCtx, done)
	return nil
}

// Stop disarms the trigger and waits for an in-flight cycle to finish, or for
// ctx to expire. The in-flight cycle itself is never cancelled.
func (s *NotificationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return nil
	}
	s.state = StateIdle
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	s.log.Info("stopping notification scheduler")
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.log.Warn("scheduler stopped before the running cycle finished", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

func (s *NotificationScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		timer := time.NewTimer(s.untilNextTick())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if !s.transition(ctx, StateScheduled, StateRunning) {
			return
		}
		s.runCycle(context.WithoutCancel(ctx))
		if !s.transition(ctx, StateRunning, StateScheduled) {
			return
		}
	}
}

// transition moves from -> to unless this loop has been stopped meanwhile.
func (s *NotificationScheduler) transition(ctx context.Context, from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil || s.state != from {
		return false
	}
	s.state = to
	return true
}

func (s *NotificationScheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("notification cycle panicked", zap.Any("panic", r))
		}
	}()

	if _, err := s.cycler.RunCycle(ctx); err != nil {
		if errors.Is(err, ErrCycleInProgress) {
			s.log.Warn("previous cycle still running, skipping tick")
			return
		}
		s.log.Error("notification cycle failed", zap.Error(err))
	}
}

func (s *NotificationScheduler) untilNextTick() time.Duration {
	now := s.now()
	return now.Truncate(s.interval).Add(s.interval).Sub(now)
}

// RegisterScheduler ties the scheduler to the application lifecycle.
func RegisterScheduler(lc fx.Lifecycle, s *NotificationScheduler) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
