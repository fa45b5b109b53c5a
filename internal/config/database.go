package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CollectionIndexes lists the indexes one collection needs.
type CollectionIndexes struct {
	Collection string
	Models     []mongo.IndexModel
}

// NewMongoDBClient connects, pings and returns the application database. The
// client is disconnected when the app stops.
func NewMongoDBClient(lc fx.Lifecycle, cfg *Config, log *zap.Logger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing MongoDB connection")
			return client.Disconnect(ctx)
		},
	})
	return client.Database(cfg.MongoDatabase), nil
}

// EnsureIndexes creates missing indexes. Existing identical indexes are a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger, sets ...CollectionIndexes) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, set := range sets {
		if len(set.Models) == 0 {
			continue
		}
		names, err := db.Collection(set.Collection).Indexes().CreateMany(ctx, set.Models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", set.Collection, err)
		}
		log.Debug("indexes ready", zap.String("collection", set.Collection), zap.Strings("indexes", names))
	}
	return nil
}
