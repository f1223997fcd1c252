package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestMongoStore needs a live server: MONGO_URL=mongodb://localhost:27017 go test ./store
func TestMongoStore(t *testing.T) {
	url := os.Getenv("MONGO_URL")
	if url == "" {
		t.Skip("MONGO_URL not set")
	}

	testStoreContract(t, func(t *testing.T) Store {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s, err := NewMongoStore(ctx, url, "laundromat_test_"+uuid.NewString()[:8])
		require.NoError(t, err)
		require.NoError(t, s.EnsureIndexes(ctx))
		t.Cleanup(func() {
			_ = s.customers.Database().Drop(context.Background())
			_ = s.Close()
		})
		return s
	})
}
