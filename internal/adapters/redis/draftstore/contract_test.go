package draftstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chiro-horizon/registration-api/internal/adapters/contracttest"
	draftstoreport "github.com/chiro-horizon/registration-api/internal/ports/out/draftstore"
)

func TestContract_RedisDraftStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping redis contract test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, url)
	if err != nil {
		t.Fatalf("open test client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	contracttest.RunDraftStore(t, func(t *testing.T) (draftstoreport.Store, func()) {
		t.Helper()
		// Start from a clean draft namespace.
		keys, err := client.Keys(ctx, "registration:draft:*").Result()
		if err != nil {
			t.Fatalf("list draft keys: %v", err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				t.Fatalf("clear draft keys: %v", err)
			}
		}
		return NewStore(client, time.Hour), nil
	})
}
