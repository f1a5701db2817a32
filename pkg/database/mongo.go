// Package database opens the MongoDB connection and maintains the indexes
// the application relies on.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"makers/config"
)

// Collection names used across the application.
const (
	ToolsCollection  = "tools"
	UsersCollection  = "users"
	OrdersCollection = "orders"
	LogsCollection   = "logs"
)

// Connect opens a client against config.MongoURI and verifies it with a
// ping. The returned *mongo.Database is passed explicitly to repositories;
// there is no package-level connection state.
func Connect(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("database: ping: %w", err)
	}

	return client, client.Database(config.MongoDatabase()), nil
}

// EnsureIndexes creates the indexes the application depends on:
//
//   - users.email unique (the email natural key — at most one document per
//     email, which the upsert-by-email flow assumes)
//   - orders.user (the list-orders-by-user query)
//
// Index creation is idempotent; existing identical indexes are no-ops.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("database: users.email index: %w", err)
	}

	_, err = db.Collection(OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("database: orders.user index: %w", err)
	}

	_, err = db.Collection(LogsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("database: logs.time index: %w", err)
	}

	return nil
}
