package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"myarc/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupTestDB connects to TEST_MONGO_URI and returns a throwaway database with
// indexes in place. The test is skipped when no server is reachable.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := Connect(ctx, config.DatabaseConfig{URI: uri, MaxPoolSize: 10, Timeout: 2 * time.Second})
	if err != nil {
		t.Skipf("mongo not reachable at %s: %v", uri, err)
	}

	db := client.Database("myarc_test_" + uuid.NewString()[:8])
	require.NoError(t, SetupIndexes(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}
