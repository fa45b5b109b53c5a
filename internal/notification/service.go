package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCycleInProgress is returned when a cycle is requested while another one runs.
var ErrCycleInProgress = errors.New("notification cycle already in progress")

// DueScanner finds due plants. *Scanner implements it.
type DueScanner interface {
	ScanDue(ctx context.Context, now time.Time) (DueGroups, error)
}

// GroupDispatcher delivers reminders. *Dispatcher implements it.
type GroupDispatcher interface {
	Dispatch(ctx context.Context, groups DueGroups) Result
}

// NotificationService runs reminder cycles: scan for due plants, then dispatch.
// At most one cycle runs at a time, whether started by the scheduler or by hand.
type NotificationService struct {
	scanner    DueScanner
	dispatcher GroupDispatcher
	metrics    *Metrics
	log        *zap.Logger
	now        func() time.Time
	running    atomic.Bool
}

func NewNotificationService(scanner DueScanner, dispatcher GroupDispatcher, metrics *Metrics, log *zap.Logger) *NotificationService {
	return &NotificationService{
		scanner:    scanner,
		dispatcher: dispatcher,
		metrics:    metrics,
		log:        log.Named("notifications"),
		now:        time.Now,
	}
}

// RunCycle performs one full cycle. The error is non-nil only when the cycle
// could not start or the scan failed; delivery failures are counted in Result.
func (s *NotificationService) RunCycle(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.observeCycle(OutcomeSkipped, 0)
		return Result{}, ErrCycleInProgress
	}
	defer s.running.Store(false)

	started := s.now()
	log := s.log.With(zap.String("cycle_id", uuid.NewString()))
	log.Info("checking plants for watering reminders")

	groups, err := s.scanner.ScanDue(ctx, started)
	if err != nil {
		s.metrics.observeCycle(OutcomeError, s.now().Sub(started).Seconds())
		log.Error("scan failed", zap.Error(err))
		return Result{}, err
	}
	if len(groups) == 0 {
		s.metrics.observeCycle(OutcomeOK, s.now().Sub(started).Seconds())
		log.Info("no plants due")
		return Result{}, nil
	}

	log.Info("dispatching reminders", zap.Int("plants", groups.Len()), zap.Int("tenants", len(groups)))
	res := s.dispatcher.Dispatch(ctx, groups)

	elapsed := s.now().Sub(started)
	outcome := OutcomeOK
	if res.Failed > 0 {
		outcome = OutcomePartial
	}
	s.metrics.observeCycle(outcome, elapsed.Seconds())
	log.Info("cycle finished",
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
		zap.Duration("elapsed", elapsed))
	return res, nil
}

// Running reports whether a cycle is in progress.
func (s *NotificationService) Running() bool {
	return s.running.Load()
}
