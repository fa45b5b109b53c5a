package notification

import (
	"context"
	"sync"
	"time"

	"MyPlants/internal/mail"
	"MyPlants/internal/plant"
	"MyPlants/internal/settings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeChannel struct {
	mu    sync.Mutex
	sent  []mail.Message
	fail  map[string]error // by recipient
	block bool             // wait for ctx instead of sending
}

func (c *fakeChannel) Send(ctx context.Context, msg mail.Message) error {
	if c.block {
		<-ctx.Done()
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail[msg.To]; err != nil {
		return err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeChannel) messages() []mail.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mail.Message(nil), c.sent...)
}

type fakeFactory struct {
	mu       sync.Mutex
	def      *fakeChannel
	customCh *fakeChannel
	custom   []mail.SMTPConfig
}

func (f *fakeFactory) Custom(cfg mail.SMTPConfig) mail.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.custom = append(f.custom, cfg)
	return f.customCh
}

func (f *fakeFactory) Default() mail.Channel { return f.def }

type settingsMap struct {
	byOwner map[string]*settings.Settings
	err     error
}

func (m settingsMap) FindByOwner(_ context.Context, ownerID string) (*settings.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.byOwner[ownerID]
	if !ok {
		return nil, settings.ErrNotFound
	}
	return st, nil
}

// plantStore keeps plants in memory and behaves like the Mongo repository for
// the queries the reminder job makes.
type plantStore struct {
	mu      sync.Mutex
	plants  []*plant.Plant
	marked  map[primitive.ObjectID]time.Time
	findErr error
	markErr error
}

func newPlantStore(plants ...*plant.Plant) *plantStore {
	return &plantStore{plants: plants, marked: map[primitive.ObjectID]time.Time{}}
}

func (s *plantStore) FindUnnotified(context.Context) ([]*plant.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []*plant.Plant
	for _, p := range s.plants {
		if !p.NotificationSent {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *plantStore) MarkNotified(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	for _, p := range s.plants {
		if p.ID == id {
			p.NotificationSent = true
			s.marked[id] = at
			return nil
		}
	}
	return plant.ErrNotFound
}

func (s *plantStore) wasMarked(id primitive.ObjectID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.marked[id]
	return ok
}

type staticResolver struct {
	channels map[string]mail.Channel
	errs     map[string]error
}

func (r staticResolver) Resolve(_ context.Context, tenantID string) (mail.Channel, error) {
	if err := r.errs[tenantID]; err != nil {
		return nil, err
	}
	return r.channels[tenantID], nil
}

var testNow = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func newDuePlant(owner, name, email string) *plant.Plant {
	return &plant.Plant{
		ID:            primitive.NewObjectID(),
		OwnerID:       owner,
		Name:          name,
		IntervalDays:  7,
		LastWateredAt: daysAgo(8),
		NotifyEmail:   email,
	}
}
