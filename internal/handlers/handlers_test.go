package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fraglink/internal/analytics"
	"github.com/serroba/fraglink/internal/handlers"
	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/payload"
	"github.com/serroba/fraglink/internal/qr"
	"github.com/serroba/fraglink/internal/ratelimit"
	"github.com/serroba/fraglink/internal/recent"
	"github.com/serroba/fraglink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testOrigin   = "http://localhost:8888"
	testURL      = "https://example.com/very/long/path?q=1"
	testClientID = "client-0001"
)

func errorPublishers(err error) *analytics.Publishers {
	return &analytics.Publishers{
		LinkCreated:  func(context.Context, *analytics.LinkCreatedEvent) error { return err },
		LinkResolved: func(context.Context, *analytics.LinkResolvedEvent) error { return err },
	}
}

func newLinkHandler(repo recent.Repository, publishers *analytics.Publishers, logger *zap.Logger) *handlers.LinkHandler {
	builder := link.NewBuilder(testOrigin, payload.NewEncoder(payload.LZString{}))

	return handlers.NewLinkHandler(builder, repo, publishers, logger)
}

func newResolveHandler(publishers *analytics.Publishers, logger *zap.Logger) *handlers.ResolveHandler {
	return handlers.NewResolveHandler(payload.NewDecoder(payload.LZString{}), publishers, logger)
}

func withClient(id string) context.Context {
	return handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
		ClientID:  id,
		ClientIP:  "203.0.113.7",
		UserAgent: "test-agent",
	})
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var se huma.StatusError

	require.ErrorAs(t, err, &se)
	assert.Equal(t, status, se.GetStatus())
}

func encodeFragment(t *testing.T, destination string) string {
	t.Helper()

	fragment, err := payload.NewEncoder(payload.LZString{}).Encode(payload.NewRecord(destination))
	require.NoError(t, err)

	return fragment
}

func createReq(url string) *handlers.CreateLinkRequest {
	req := &handlers.CreateLinkRequest{}
	req.Body.URL = url

	return req
}

type failingRepository struct {
	err error
}

func (f failingRepository) Add(context.Context, string, recent.Entry) error { return f.err }

func (f failingRepository) List(context.Context, string) ([]recent.Entry, error) { return nil, f.err }

func (f failingRepository) Delete(context.Context, string, string) error { return f.err }

func qrHandler(limiter ratelimit.Limiter) *handlers.QRHandler {
	return handlers.NewQRHandler(qr.NewRenderer(), limiter, qr.PreviewSize, zap.NewNop())
}

func memoryRepo() *store.RecentMemoryStore {
	return store.NewRecentMemoryStore(recent.Limit)
}

func discard() *analytics.Publishers {
	return analytics.DiscardPublishers()
}

var errPublish = errors.New("publish error")
