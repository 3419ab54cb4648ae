package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mesto_service/internal/storage/storagetest"
)

// Needs a running MongoDB, e.g. MONGO_TEST_URL=mongodb://localhost:27017.
func TestStorage(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("mesto_test_%d", time.Now().UnixNano())
	st, err := New(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.client.Database(dbName).Drop(context.Background())
		_ = st.Close(context.Background())
	})

	storagetest.Run(t, st)
}
