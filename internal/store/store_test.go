// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if MongoDB is not available.
package store

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"inkpress/internal/database"
)

// testURI returns the MongoDB connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testURI() string {
	return envOr("MONGO_URI", "mongodb://localhost:27017")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects to the test database and ensures indexes. If MongoDB is
// unavailable, the test is skipped. A cleanup function is registered to
// close the connection when the test finishes.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db, closeDB, err := database.Connect(ctx, testURI(), envOr("MONGO_DB_TEST", "inkpress_test"))
	if err != nil {
		t.Skipf("skipping integration test: MongoDB not reachable: %v", err)
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		closeDB()
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(closeDB)
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *mongo.Database, emails ...string) {
	t.Helper()
	ctx := context.Background()
	for _, email := range emails {
		db.Collection(database.UsersCollection).DeleteMany(ctx, bson.M{"email": email})
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *mongo.Database, slugs ...string) {
	t.Helper()
	ctx := context.Background()
	for _, slug := range slugs {
		db.Collection(database.CategoriesCollection).DeleteMany(ctx, bson.M{"slug": slug})
	}
}

// cleanPosts removes test posts whose slug starts with the given prefix.
// Call in t.Cleanup().
func cleanPosts(t *testing.T, db *mongo.Database, prefixes ...string) {
	t.Helper()
	ctx := context.Background()
	for _, prefix := range prefixes {
		db.Collection(database.PostsCollection).DeleteMany(ctx, bson.M{"slug": bson.M{"$regex": "^" + prefix}})
	}
}
