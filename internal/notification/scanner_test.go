package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"MyPlants/internal/plant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDue(t *testing.T) {
	off := false
	on := true
	exactly := testNow.AddDate(0, 0, -7)
	almost := exactly.Add(time.Second)

	due := newDuePlant("user-1", "Fern", "a@example.com")
	boundary := newDuePlant("user-1", "Ivy", "a@example.com")
	boundary.LastWateredAt = &exactly
	early := newDuePlant("user-1", "Cactus", "a@example.com")
	early.LastWateredAt = &almost
	never := newDuePlant("user-1", "Orchid", "a@example.com")
	never.LastWateredAt = nil
	noEmail := newDuePlant("user-1", "Basil", "")
	disabled := newDuePlant("user-1", "Mint", "a@example.com")
	disabled.RemindersEnabled = &off
	enabled := newDuePlant("user-2", "Palm", "b@example.com")
	enabled.RemindersEnabled = &on
	notified := newDuePlant("user-2", "Aloe", "b@example.com")
	notified.NotificationSent = true

	s := NewScanner(newPlantStore(due, boundary, early, never, noEmail, disabled, enabled, notified))
	groups, err := s.ScanDue(context.Background(), testNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"user-1", "user-2"}, groups.Tenants())
	assert.Equal(t, 3, groups.Len())
	assert.Equal(t, []string{"Fern", "Ivy"}, names(groups["user-1"]))
	assert.Equal(t, []string{"Palm"}, names(groups["user-2"]))
}

func TestScanDueNothingDue(t *testing.T) {
	fresh := newDuePlant("user-1", "Fern", "a@example.com")
	fresh.LastWateredAt = daysAgo(1)

	groups, err := NewScanner(newPlantStore(fresh)).ScanDue(context.Background(), testNow)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Zero(t, groups.Len())
}

func TestScanDueCalendarDays(t *testing.T) {
	// A 30 day interval counts calendar days, so it spans a month boundary exactly.
	watered := time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC)
	p := newDuePlant("user-1", "Fern", "a@example.com")
	p.IntervalDays = 30
	p.LastWateredAt = &watered
	s := NewScanner(newPlantStore(p))

	groups, err := s.ScanDue(context.Background(), time.Date(2024, time.March, 1, 7, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = s.ScanDue(context.Background(), time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, groups.Len())
}

func TestScanDueStoreError(t *testing.T) {
	store := newPlantStore()
	store.findErr = errors.New("server selection timeout")

	_, err := NewScanner(store).ScanDue(context.Background(), testNow)
	require.ErrorIs(t, err, store.findErr)
}

func names(plants []*plant.Plant) []string {
	out := make([]string, 0, len(plants))
	for _, p := range plants {
		out = append(out, p.Name)
	}
	return out
}
