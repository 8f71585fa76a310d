package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")

// NewMongoDatabase connects with retries and returns the configured database handle.
func NewMongoDatabase(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	var lastErr error
	for range cfg.MongoRetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.MongoURL).
				SetConnectTimeout(cfg.MongoConnectTimeout).
				SetRetryWrites(true).
				SetRetryReads(true),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				return client.Database(cfg.MongoDatabase), nil
			}
			_ = client.Disconnect(context.Background())
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.MongoRetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}
