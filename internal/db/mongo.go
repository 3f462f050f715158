package db

import (
	"context"
	"fmt"
	"time"

	"selam/pkg/types"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo builds the shared Mongo client: one cached client for the
// process lifetime, bounded pool, short server selection so an unreachable
// cluster fails queries quickly instead of hanging the fallback path.
func ConnectMongo(ctx context.Context, config *types.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(config.MongoURI).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(time.Duration(config.QueryTimeoutSec) * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return client, nil
}
