package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/tuanvumaihuynh/shop-backend/internal/config"
)

const (
	ProductCollection = "products"
	CartCollection    = "carts"
)

// NewMongoDatabase connects to MongoDB with the given configuration and
// returns a handle to the configured database.
func NewMongoDatabase(ctx context.Context, cfg config.Mongo) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.SelectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the application relies on. It is safe to
// call repeatedly; MongoDB treats existing indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// code is an intended-unique SKU but historically not enforced as
	// unique, so the index stays non-unique.
	productIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}},
	}
	if _, err := db.Collection(ProductCollection).Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}

	cartIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "updated_at", Value: 1}}},
	}
	if _, err := db.Collection(CartCollection).Indexes().CreateMany(ctx, cartIndexes); err != nil {
		return fmt.Errorf("create cart indexes: %w", err)
	}

	return nil
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var _ HealthChecker = (*Client)(nil)

type Client struct {
	*mongo.Database
}

// NewClient wraps a database handle.
func NewClient(database *mongo.Database) *Client {
	return &Client{database}
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.Client().Ping(ctx, nil); err != nil {
		return false, fmt.Errorf("ping mongodb: %w", err)
	}
	return true, nil
}
