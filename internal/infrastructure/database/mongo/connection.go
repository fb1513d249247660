// internal/infrastructure/database/mongo/connection.go
package mongo

import (
	"context"
	"fmt"
	"log"

	"github.com/your-org/commerce-analytics/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connection holds the document store client and the database the analytics read from
type Connection struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewConnection connects to MongoDB and verifies the primary is reachable
func NewConnection(ctx context.Context, cfg *config.Config) (*Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetAppName(cfg.App.Name).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetReadPreference(readpref.SecondaryPreferred())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("✅ MongoDB connection established successfully")

	return &Connection{
		Client: client,
		DB:     client.Database(cfg.Mongo.Database),
	}, nil
}

// Health pings the deployment
func (c *Connection) Health(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
