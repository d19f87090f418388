package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/fraglink/internal/recent"
	"github.com/serroba/fraglink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(n int) recent.Entry {
	return recent.Entry{
		ShortURL:  fmt.Sprintf("https://s.example.com/o.html#frag%d", n),
		URL:       fmt.Sprintf("https://example.com/%d", n),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, n, 0, time.UTC),
	}
}

// exerciseRepository runs the behavior every recent.Repository must share.
func exerciseRepository(t *testing.T, newRepo func(limit int) recent.Repository, owner string) {
	t.Helper()

	ctx := context.Background()

	t.Run("lists newest first", func(t *testing.T) {
		repo := newRepo(recent.Limit)

		require.NoError(t, repo.Add(ctx, owner+"-order", entry(1)))
		require.NoError(t, repo.Add(ctx, owner+"-order", entry(2)))

		got, err := repo.List(ctx, owner+"-order")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, entry(2).ShortURL, got[0].ShortURL)
		assert.Equal(t, entry(1).URL, got[1].URL)
		assert.True(t, entry(1).CreatedAt.Equal(got[1].CreatedAt))
	})

	t.Run("caps history at limit", func(t *testing.T) {
		repo := newRepo(3)

		for i := range 5 {
			require.NoError(t, repo.Add(ctx, owner+"-cap", entry(i)))
		}

		got, err := repo.List(ctx, owner+"-cap")

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, entry(4).ShortURL, got[0].ShortURL)
		assert.Equal(t, entry(2).ShortURL, got[2].ShortURL)
	})

	t.Run("deletes every matching entry", func(t *testing.T) {
		repo := newRepo(recent.Limit)

		require.NoError(t, repo.Add(ctx, owner+"-del", entry(1)))
		require.NoError(t, repo.Add(ctx, owner+"-del", entry(2)))
		require.NoError(t, repo.Add(ctx, owner+"-del", entry(1)))

		require.NoError(t, repo.Delete(ctx, owner+"-del", entry(1).ShortURL))

		got, err := repo.List(ctx, owner+"-del")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, entry(2).ShortURL, got[0].ShortURL)
	})

	t.Run("delete of missing entry succeeds", func(t *testing.T) {
		repo := newRepo(recent.Limit)

		assert.NoError(t, repo.Delete(ctx, owner+"-missing", "https://nowhere"))
	})

	t.Run("owners are isolated", func(t *testing.T) {
		repo := newRepo(recent.Limit)

		require.NoError(t, repo.Add(ctx, owner+"-a", entry(1)))

		got, err := repo.List(ctx, owner+"-b")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		repo := newRepo(recent.Limit)

		assert.ErrorIs(t, repo.Add(ctx, "", entry(1)), recent.ErrInvalidOwner)

		_, err := repo.List(ctx, "")
		assert.ErrorIs(t, err, recent.ErrInvalidOwner)
		assert.ErrorIs(t, repo.Delete(ctx, "", "x"), recent.ErrInvalidOwner)
	})
}

func TestRecentMemoryStore(t *testing.T) {
	exerciseRepository(t, func(limit int) recent.Repository {
		return store.NewRecentMemoryStore(limit)
	}, "mem")

	t.Run("list returns a copy", func(t *testing.T) {
		s := store.NewRecentMemoryStore(recent.Limit)
		require.NoError(t, s.Add(context.Background(), "owner", entry(1)))

		got, _ := s.List(context.Background(), "owner")
		got[0].URL = "mutated"

		again, _ := s.List(context.Background(), "owner")
		assert.Equal(t, entry(1).URL, again[0].URL)
	})

	t.Run("concurrent adds", func(t *testing.T) {
		s := store.NewRecentMemoryStore(recent.Limit)

		var wg sync.WaitGroup
		for i := range 100 {
			wg.Go(func() {
				_ = s.Add(context.Background(), "owner", entry(i))
			})
		}

		wg.Wait()

		got, err := s.List(context.Background(), "owner")

		require.NoError(t, err)
		assert.Len(t, got, recent.Limit)
	})
}
