// Package mongodb implements the domain repositories on the MongoDB
// document store. Updates go through findOneAndUpdate returning the
// post-update document; there is no optimistic concurrency control.
package mongodb

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Config holds the MongoDB connection settings.
type Config struct {
	URI      string
	Database string
}

// Client wraps the driver client and the application database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the MongoDB connection.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongodb")
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close disconnects from the server.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
