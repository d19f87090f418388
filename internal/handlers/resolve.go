package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fraglink/internal/analytics"
	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/payload"
	"go.uber.org/zap"
)

const brokenLink = "invalid or broken link"

// ResolveHandler decodes fragments back into destinations.
type ResolveHandler struct {
	decoder    *payload.Decoder
	publishers *analytics.Publishers
	now        func() time.Time
	logger     *zap.Logger
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(decoder *payload.Decoder, publishers *analytics.Publishers, logger *zap.Logger) *ResolveHandler {
	return &ResolveHandler{
		decoder:    decoder,
		publishers: publishers,
		now:        time.Now,
		logger:     logger,
	}
}

func (h *ResolveHandler) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	fragment := normalizeFragment(req.Body.Fragment)

	record, strategy, err := h.decode(ctx, fragment)
	if err != nil {
		return nil, err
	}

	resp := &ResolveResponse{}
	resp.Body.URL = record.URL()
	resp.Body.Record = record
	resp.Body.Strategy = string(strategy)

	return resp, nil
}

func (h *ResolveHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	record, _, err := h.decode(ctx, req.Fragment)
	if err != nil {
		return nil, err
	}

	destination, verr := link.ValidateDestination(record.URL())
	if verr != nil {
		return nil, huma.Error422UnprocessableEntity("link destination is not allowed")
	}

	return &RedirectResponse{
		Status:   http.StatusMovedPermanently,
		Location: destination,
	}, nil
}

func (h *ResolveHandler) decode(ctx context.Context, fragment string) (payload.Record, payload.Strategy, error) {
	if len(fragment) > MaxFragmentLength {
		return nil, payload.StrategyNone, huma.Error400BadRequest("fragment is too long")
	}

	record, strategy := h.decoder.Trace(fragment)
	if record == nil || record.URL() == "" {
		h.logger.Debug("fragment did not decode", zap.Int("fragmentLength", len(fragment)))

		return nil, payload.StrategyNone, huma.Error422UnprocessableEntity(brokenLink)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkResolvedEvent{
		Strategy:       string(strategy),
		URL:            record.URL(),
		FragmentLength: len(fragment),
		ResolvedAt:     h.now().UTC(),
		ClientIP:       meta.ClientIP,
		UserAgent:      meta.UserAgent,
		Referrer:       meta.Referrer,
	}

	if err := h.publishers.LinkResolved(ctx, event); err != nil {
		h.logger.Error("failed to publish resolve event",
			zap.String("strategy", event.Strategy),
			zap.Error(err),
		)
	}

	return record, strategy, nil
}

// normalizeFragment accepts a bare fragment, a '#'-prefixed one, or a full link.
func normalizeFragment(in string) string {
	in = strings.TrimSpace(in)

	if fragment, err := link.FragmentOf(in); err == nil {
		return fragment
	}

	return strings.TrimPrefix(in, "#")
}
