package settings

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("settings not found")
	ErrSlugTaken = errors.New("slug already in use")
)

// CollectionName is the Mongo collection holding settings documents.
const CollectionName = "settings"

// Repository handles DB operations for tenant settings.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository creates a new repository for settings.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(CollectionName)}
}

// Indexes keeps one document per owner and unique public slugs.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"slug": bson.M{"$type": "string"}}),
		},
	}
}

// FindByOwner returns ErrNotFound when the tenant never saved settings.
func (r *Repository) FindByOwner(ctx context.Context, ownerID string) (*Settings, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

// FindPublicBySlug only matches profiles marked public.
func (r *Repository) FindPublicBySlug(ctx context.Context, slug string) (*Settings, error) {
	return r.findOne(ctx, bson.M{"slug": slug, "is_public": true})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*Settings, error) {
	var s Settings
	if err := r.collection.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &s, nil
}

// Upsert replaces the owner's settings, creating them on first write.
func (r *Repository) Upsert(ctx context.Context, s *Settings) (*Settings, error) {
	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	replacement := *s
	replacement.ID = primitive.NilObjectID

	var saved Settings
	err := r.collection.FindOneAndReplace(ctx, bson.M{"owner_id": s.OwnerID}, replacement, opts).Decode(&saved)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("upsert settings of %s: %w", s.OwnerID, err)
	}
	return &saved, nil
}
