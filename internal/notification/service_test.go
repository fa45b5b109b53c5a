package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MyPlants/internal/mail"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type scanFunc func(ctx context.Context, now time.Time) (DueGroups, error)

func (f scanFunc) ScanDue(ctx context.Context, now time.Time) (DueGroups, error) { return f(ctx, now) }

type dispatchFunc func(ctx context.Context, groups DueGroups) Result

func (f dispatchFunc) Dispatch(ctx context.Context, groups DueGroups) Result { return f(ctx, groups) }

// newPipeline wires a service with the real scanner and dispatcher over in-memory stores.
func newPipeline(t *testing.T, store *plantStore, ch *fakeChannel) (*NotificationService, *Metrics) {
	t.Helper()
	cfg := testConfig()
	metrics := NewMetrics(prometheus.NewRegistry())
	factory := &fakeFactory{def: ch, customCh: &fakeChannel{}}
	resolver := NewResolver(settingsMap{}, nil, factory)
	d := NewDispatcher(resolver, store, NewLinks(cfg), metrics, cfg, zaptest.NewLogger(t))
	svc := NewNotificationService(NewScanner(store), d, metrics, zaptest.NewLogger(t))
	svc.now = func() time.Time { return testNow }
	return svc, metrics
}

func TestRunCycleRemindsOnce(t *testing.T) {
	fern := newDuePlant("user-1", "Fern", "a@example.com")
	fresh := newDuePlant("user-1", "Ivy", "a@example.com")
	fresh.LastWateredAt = daysAgo(2)
	store := newPlantStore(fern, fresh)
	ch := &fakeChannel{}
	svc, metrics := newPipeline(t, store, ch)

	res, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 1}, res)
	assert.True(t, store.wasMarked(fern.ID))

	res, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Len(t, ch.messages(), 1)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.cycles.WithLabelValues(OutcomeOK)))
}

func TestRunCycleRetriesFailedSendNextCycle(t *testing.T) {
	fern := newDuePlant("user-1", "Fern", "a@example.com")
	store := newPlantStore(fern)
	ch := &fakeChannel{fail: map[string]error{"a@example.com": errors.New("421 try again later")}}
	svc, metrics := newPipeline(t, store, ch)

	res, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Failed: 1}, res)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cycles.WithLabelValues(OutcomePartial)))

	ch.mu.Lock()
	ch.fail = nil
	ch.mu.Unlock()

	res, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 1}, res)
	assert.True(t, store.wasMarked(fern.ID))
}

func TestRunCycleScanError(t *testing.T) {
	boom := errors.New("no reachable servers")
	metrics := NewMetrics(prometheus.NewRegistry())
	dispatched := false
	svc := NewNotificationService(
		scanFunc(func(context.Context, time.Time) (DueGroups, error) { return nil, boom }),
		dispatchFunc(func(context.Context, DueGroups) Result { dispatched = true; return Result{} }),
		metrics, zaptest.NewLogger(t))

	_, err := svc.RunCycle(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, dispatched)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cycles.WithLabelValues(OutcomeError)))
}

func TestRunCycleRejectsOverlap(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := NewNotificationService(
		scanFunc(func(context.Context, time.Time) (DueGroups, error) {
			return DueGroups{"user-1": {newDuePlant("user-1", "Fern", "a@example.com")}}, nil
		}),
		dispatchFunc(func(context.Context, DueGroups) Result {
			close(entered)
			<-release
			return Result{Sent: 1}
		}),
		NewMetrics(prometheus.NewRegistry()), zaptest.NewLogger(t))

	done := make(chan Result)
	go func() {
		res, _ := svc.RunCycle(context.Background())
		done <- res
	}()
	<-entered
	assert.True(t, svc.Running())

	_, err := svc.RunCycle(context.Background())
	require.ErrorIs(t, err, ErrCycleInProgress)

	close(release)
	assert.Equal(t, Result{Sent: 1}, <-done)
	assert.False(t, svc.Running())
}

func TestRunNowHandler(t *testing.T) {
	store := newPlantStore(newDuePlant("user-1", "Fern", "a@example.com"))
	svc, _ := newPipeline(t, store, &fakeChannel{})
	h := NewNotificationHandler(svc, zaptest.NewLogger(t))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/run", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.RunNow(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, Result{Sent: 1}, res)

	svc.running.Store(true)
	rec = httptest.NewRecorder()
	require.NoError(t, h.RunNow(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

var _ mail.Channel = (*fakeChannel)(nil)
