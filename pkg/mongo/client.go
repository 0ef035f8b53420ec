package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DefaultURI      = "mongodb://localhost:27017"
	DefaultDatabase = "finance"
)

// Client owns a driver client and the database handle readers work against.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to MongoDB and pings the primary.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &ClientConfig{
		URI:                    DefaultURI,
		Database:               DefaultDatabase,
		AppName:                "stockaccess",
		MaxPoolSize:            20,
		ConnectTimeout:         5 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		PingTimeout:            5 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}

	co := buildClientOptions(*cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout+cfg.PingTimeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if cfg.PingTimeout > 0 {
		pctx, pcancel := context.WithTimeout(ctx, cfg.PingTimeout)
		defer pcancel()
		if err := cli.Ping(pctx, readpref.Primary()); err != nil {
			_ = cli.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
	}

	return &Client{client: cli, db: cli.Database(cfg.Database)}, nil
}

// DB returns the configured database.
func (c *Client) DB() *mongo.Database {
	return c.db
}

// Health pings the primary.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the driver client.
func (c *Client) Close(ctx context.Context) error {
	if c.client != nil {
		return c.client.Disconnect(ctx)
	}
	return nil
}

func buildClientOptions(cfg ClientConfig) *options.ClientOptions {
	co := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		co.SetAppName(cfg.AppName)
	}
	if cfg.MaxPoolSize > 0 {
		co.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		co.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.ConnectTimeout > 0 {
		co.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		co.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	// Socket timeout is left to the driver default unless configured.
	if cfg.SocketTimeout > 0 {
		co.SetSocketTimeout(cfg.SocketTimeout)
	}
	return co
}
