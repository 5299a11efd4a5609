package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 5 * time.Second

// Connect dials MongoDB and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("storefront"))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// ConnectOptional mirrors postgres.ConnectOptional for the document store.
func ConnectOptional(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, func()) {
	if strings.TrimSpace(uri) == "" {
		if logger != nil {
			logger.Warn("MONGO_URI not set, falling back to in-memory adapters")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, uri)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to mongo, falling back to in-memory adapters", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("mongo connection established", slog.String("database", database))
	}
	return client.Database(database), func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}
