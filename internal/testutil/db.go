// Package testutil provides helpers for tests that need a live MongoDB
// instance or an authenticated request. Tests that call SetupTestDB are
// skipped when no local Mongo is reachable, so the rest of the suite still
// runs everywhere.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoURI = "mongodb://localhost:27017"

// SetupTestDB connects to the test MongoDB instance and returns a database
// unique to the calling test. The database is dropped and the client closed
// in cleanup. Set CLASSHUB_TEST_MONGO_URI to point at a non-default server.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("CLASSHUB_TEST_MONGO_URI")
	if uri == "" {
		uri = defaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("mongodb not reachable at %s: %v", uri, err)
	}

	name := fmt.Sprintf("classhub_test_%d", time.Now().UnixNano())
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with the standard test timeout.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
