// Package database handles MongoDB connection management and index
// bootstrap. It provides a Connect function that returns a ready-to-use
// *mongo.Database and an EnsureIndexes function run at startup in place of
// schema migrations.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the stores.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	PostsCollection      = "posts"
)

// Connect opens a MongoDB client for the given URI and database name.
// It verifies the connection with a ping before returning.
func Connect(ctx context.Context, uri, name string) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	// Verify the connection is alive.
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	close := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Warn("mongo disconnect", "error", err)
		}
	}

	slog.Info("mongodb connected", "db", name)
	return client.Database(name), close, nil
}

// EnsureIndexes creates the unique and query indexes the stores rely on.
// Index creation is idempotent, so this runs on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	categories := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection(CategoriesCollection).Indexes().CreateMany(ctx, categories); err != nil {
		return fmt.Errorf("categories indexes: %w", err)
	}

	posts := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "author", Value: 1}},
		},
	}
	if _, err := db.Collection(PostsCollection).Indexes().CreateMany(ctx, posts); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}

	slog.Info("database indexes ensured")
	return nil
}
