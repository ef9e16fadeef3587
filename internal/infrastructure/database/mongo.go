package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/store-api/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client owns the process-wide MongoDB connection pool
type Client struct {
	client *mongo.Client
	dbName string
	logger *slog.Logger
}

// Connect establishes and pings a MongoDB connection
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*Client, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.InfoContext(ctx, "Connecting to MongoDB", slog.String("database", cfg.Name))

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.InfoContext(ctx, "Connected to MongoDB")
	return &Client{client: client, dbName: cfg.Name, logger: logger}, nil
}

// Database returns the handle of the configured database
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.dbName)
}

// Disconnect closes the connection pool
func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	c.logger.InfoContext(ctx, "Disconnected from MongoDB")
	return nil
}
