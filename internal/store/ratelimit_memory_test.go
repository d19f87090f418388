package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/fraglink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("records and counts requests", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(ctx, "key1", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		_, _ = s.Record(ctx, "key1", time.Minute)
		_, _ = s.Record(ctx, "key1", time.Minute)

		count, err := s.Record(ctx, "key2", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "key2 should have its own counter")
	})

	t.Run("drops requests outside the window", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		s := store.NewRateLimitMemoryStoreWithClock(func() time.Time { return now })

		_, _ = s.Record(ctx, "key1", time.Minute)
		_, _ = s.Record(ctx, "key1", time.Minute)

		now = now.Add(61 * time.Second)

		count, err := s.Record(ctx, "key1", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "expired entries should be pruned")
	})

	t.Run("prune forgets idle keys", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		s := store.NewRateLimitMemoryStoreWithClock(func() time.Time { return now })

		_, _ = s.Record(ctx, "old", time.Minute)

		now = now.Add(2 * time.Minute)
		_, _ = s.Record(ctx, "fresh", time.Minute)

		s.Prune(time.Minute)

		assert.Equal(t, 1, s.Keys())
	})
}
