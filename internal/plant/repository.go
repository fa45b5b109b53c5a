package plant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no plant matches the given id.
var ErrNotFound = errors.New("plant not found")

// CollectionName is the Mongo collection holding plants documents.
const CollectionName = "plants"

// Repository handles DB operations for plants.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates a new repository for plants.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(CollectionName)}
}

// Indexes used by the reminder sweep and the per-owner listing.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "notification_sent", Value: 1}}},
	}
}

// Create inserts p and sets its ID.
func (r *Repository) Create(ctx context.Context, p *Plant) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert plant: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Plant, error) {
	var p Plant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find plant %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// ListByOwner returns the owner's plants sorted by name, case-insensitively.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*Plant, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en", Strength: 1})
	return r.find(ctx, bson.M{"owner_id": ownerID}, opts)
}

// FindUnnotified returns every plant whose reminder has not been sent yet,
// in natural collection order. Documents without the flag count as unnotified.
func (r *Repository) FindUnnotified(ctx context.Context) ([]*Plant, error) {
	return r.find(ctx, bson.M{"notification_sent": bson.M{"$ne": true}})
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*Plant, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find plants: %w", err)
	}
	plants := []*Plant{}
	if err := cursor.All(ctx, &plants); err != nil {
		return nil, fmt.Errorf("decode plants: %w", err)
	}
	return plants, nil
}

// Update replaces the stored document with p.
func (r *Repository) Update(ctx context.Context, p *Plant) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update plant %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete plant %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkNotified flips the reminder flag with a single-document update so concurrent
// edits to other fields are not overwritten.
func (r *Repository) MarkNotified(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"notification_sent": true, "updated_at": at}}
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("mark plant %s notified: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetWatering records a watering at `at` and re-arms the reminder.
// It returns the updated plant.
func (r *Repository) ResetWatering(ctx context.Context, id primitive.ObjectID, at time.Time) (*Plant, error) {
	update := bson.M{"$set": bson.M{
		"last_watered_at":   at,
		"notification_sent": false,
		"updated_at":        at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p Plant
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reset watering of plant %s: %w", id.Hex(), err)
	}
	return &p, nil
}
