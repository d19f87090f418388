package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/fraglink/internal/analytics"
	"github.com/serroba/fraglink/internal/analytics/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoop(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	noop := store.NewNoop(zap.New(core))

	require.NoError(t, noop.SaveLinkCreated(context.Background(), &analytics.LinkCreatedEvent{
		Kind:           "url",
		URL:            "https://example.com",
		FragmentLength: 40,
		CreatedAt:      time.Now(),
	}))
	require.NoError(t, noop.SaveLinkResolved(context.Background(), &analytics.LinkResolvedEvent{
		Strategy:   "lzstring",
		URL:        "https://example.com",
		ResolvedAt: time.Now(),
	}))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "link created event received", logs.All()[0].Message)
	assert.Equal(t, "lzstring", logs.All()[1].ContextMap()["strategy"])
}

func TestMemory(t *testing.T) {
	t.Run("counts events", func(t *testing.T) {
		m := store.NewMemory()
		ctx := context.Background()

		_ = m.SaveLinkCreated(ctx, &analytics.LinkCreatedEvent{Kind: "url", FragmentLength: 10})
		_ = m.SaveLinkCreated(ctx, &analytics.LinkCreatedEvent{Kind: "mailto", FragmentLength: 5})
		_ = m.SaveLinkCreated(ctx, &analytics.LinkCreatedEvent{Kind: "url", FragmentLength: 1})
		_ = m.SaveLinkResolved(ctx, &analytics.LinkResolvedEvent{Strategy: "lzstring"})

		stats := m.Snapshot()

		assert.Equal(t, int64(2), stats.Created["url"])
		assert.Equal(t, int64(1), stats.Created["mailto"])
		assert.Equal(t, int64(1), stats.Resolved["lzstring"])
		assert.Equal(t, int64(16), stats.TotalBytes)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		m := store.NewMemory()
		_ = m.SaveLinkCreated(context.Background(), &analytics.LinkCreatedEvent{Kind: "url"})

		snap := m.Snapshot()
		snap.Created["url"] = 100

		assert.Equal(t, int64(1), m.Snapshot().Created["url"])
	})

	t.Run("concurrent saves", func(t *testing.T) {
		m := store.NewMemory()

		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				_ = m.SaveLinkResolved(context.Background(), &analytics.LinkResolvedEvent{Strategy: "base64-raw"})
			})
		}

		wg.Wait()

		assert.Equal(t, int64(50), m.Snapshot().Resolved["base64-raw"])
	})
}
