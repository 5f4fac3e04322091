package repository

import (
	"context"
	"fmt"

	"github.com/mansoorceksport/gymgraph/internal/config"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClientOptions builds the driver options for the document store.
// The server key is bound as the credential password and never checked locally:
// a wrong or empty key only fails once a query reaches the server.
func ClientOptions(cfg config.MongoDBConfig, monitor *event.CommandMonitor) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ServerKey != "" {
		opts.SetAuth(options.Credential{
			AuthSource: cfg.AuthSource,
			Username:   cfg.Username,
			Password:   cfg.ServerKey,
		})
	}
	if monitor != nil {
		opts.SetMonitor(monitor)
	}
	return opts
}

// Connect creates the process-wide client. The driver connects lazily, so no
// round trip to the server happens here.
func Connect(ctx context.Context, cfg config.MongoDBConfig, monitor *event.CommandMonitor) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, ClientOptions(cfg, monitor))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return client, nil
}
