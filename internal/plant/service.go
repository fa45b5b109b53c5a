package plant

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the persistence the plant service needs. *Repository implements it.
type Store interface {
	Create(ctx context.Context, p *Plant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Plant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Plant, error)
	Update(ctx context.Context, p *Plant) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ResetWatering(ctx context.Context, id primitive.ObjectID, at time.Time) (*Plant, error)
}

// Service holds plant business rules, including the watering confirmation.
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a new plant Service.
func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log.Named("plants"), now: time.Now}
}

// parseID maps malformed ids to ErrNotFound; they cannot name an existing plant.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]*Plant, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, id string) (*Plant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid)
}

// Create stores a new plant. Reminders start enabled and un-notified.
func (s *Service) Create(ctx context.Context, req PlantRequest) (*Plant, error) {
	now := s.now()
	p := &Plant{OwnerID: req.UserID, CreatedAt: now}
	req.apply(p)
	p.NotificationSent = false
	p.UpdatedAt = now
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("plant created", zap.String("plant_id", p.ID.Hex()), zap.String("owner_id", p.OwnerID))
	return p, nil
}

// Update edits a plant. The owner never changes. A new watering date or interval
// starts a new cycle, so the reminder flag is cleared.
func (s *Service) Update(ctx context.Context, id string, req PlantRequest) (*Plant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	prevInterval, prevWatered := p.IntervalDays, p.LastWateredAt
	req.apply(p)
	if p.IntervalDays != prevInterval || !sameTime(p.LastWateredAt, prevWatered) {
		p.NotificationSent = false
	}
	p.UpdatedAt = s.now()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, oid)
}

// ConfirmWatering records that the plant was watered now and re-arms its reminder.
// Confirming twice in a row is fine; each call moves the watering time to now.
func (s *Service) ConfirmWatering(ctx context.Context, id string) (*Plant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.ResetWatering(ctx, oid, s.now())
	if err != nil {
		return nil, err
	}
	s.log.Info("watering confirmed", zap.String("plant_id", id), zap.String("owner_id", p.OwnerID))
	return p, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
