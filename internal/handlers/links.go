package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fraglink/internal/analytics"
	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/recent"
	"go.uber.org/zap"
)

// MaxFragmentLength bounds the fragments this server composes or decodes.
const MaxFragmentLength = 8192

// Link kinds reported in analytics.
const (
	KindURL      = "url"
	KindWhatsApp = "whatsapp"
	KindMailto   = "mailto"
)

// LinkHandler composes fragment links and keeps per-client history.
type LinkHandler struct {
	builder    *link.Builder
	recent     recent.Repository
	publishers *analytics.Publishers
	now        func() time.Time
	logger     *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	builder *link.Builder,
	recentRepo recent.Repository,
	publishers *analytics.Publishers,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		builder:    builder,
		recent:     recentRepo,
		publishers: publishers,
		now:        time.Now,
		logger:     logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*LinkResponse, error) {
	destination, err := link.ValidateDestination(req.Body.URL)
	if err != nil {
		return nil, validationProblem(err)
	}

	return h.create(ctx, destination, strings.TrimSpace(req.Body.Slug), KindURL)
}

func (h *LinkHandler) CreateWhatsApp(ctx context.Context, req *CreateWhatsAppRequest) (*LinkResponse, error) {
	destination, err := link.WhatsApp(link.WhatsAppRequest{
		Country: req.Body.Country,
		Number:  req.Body.Number,
		Message: req.Body.Message,
	})
	if err != nil {
		return nil, validationProblem(err)
	}

	return h.create(ctx, destination, "", KindWhatsApp)
}

func (h *LinkHandler) CreateMailto(ctx context.Context, req *CreateMailtoRequest) (*LinkResponse, error) {
	destination, err := link.Mailto(link.MailtoRequest{
		Email:   req.Body.Email,
		Subject: req.Body.Subject,
		Body:    req.Body.Body,
	})
	if err != nil {
		return nil, validationProblem(err)
	}

	return h.create(ctx, destination, "", KindMailto)
}

func (h *LinkHandler) create(ctx context.Context, destination, slug, kind string) (*LinkResponse, error) {
	shortURL, fragment, err := h.builder.Build(destination)
	if err != nil {
		h.logger.Error("failed to encode link", zap.String("kind", kind), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to encode link")
	}

	if len(fragment) > MaxFragmentLength {
		return nil, huma.Error400BadRequest("destination is too large to encode")
	}

	meta := RequestMetaFromContext(ctx)
	entry := recent.Entry{
		ShortURL:  shortURL,
		URL:       destination,
		Slug:      slug,
		CreatedAt: h.now().UTC(),
	}

	if meta.ClientID != "" {
		if err := h.recent.Add(ctx, meta.ClientID, entry); err != nil {
			h.logger.Error("failed to record recent link", zap.String("client_id", meta.ClientID), zap.Error(err))
		}
	}

	event := &analytics.LinkCreatedEvent{
		ShortURL:       shortURL,
		URL:            destination,
		Kind:           kind,
		Slug:           slug,
		FragmentLength: len(fragment),
		CreatedAt:      entry.CreatedAt,
		ClientIP:       meta.ClientIP,
		UserAgent:      meta.UserAgent,
	}

	if err := h.publishers.LinkCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}

	resp := &LinkResponse{Location: shortURL}
	resp.Body = LinkBody{
		ShortURL:  shortURL,
		Fragment:  fragment,
		URL:       destination,
		Slug:      slug,
		CreatedAt: entry.CreatedAt,
	}

	return resp, nil
}

func (h *LinkHandler) ListRecent(ctx context.Context, _ *struct{}) (*ListRecentResponse, error) {
	entries, err := h.recent.List(ctx, RequestMetaFromContext(ctx).ClientID)
	if err != nil {
		if errors.Is(err, recent.ErrInvalidOwner) {
			return nil, huma.Error400BadRequest("missing client id")
		}

		h.logger.Error("failed to list recent links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list recent links")
	}

	resp := &ListRecentResponse{}
	resp.Body.Links = entries

	if resp.Body.Links == nil {
		resp.Body.Links = []recent.Entry{}
	}

	return resp, nil
}

func (h *LinkHandler) DeleteRecent(ctx context.Context, req *DeleteRecentRequest) (*struct{}, error) {
	if err := h.recent.Delete(ctx, RequestMetaFromContext(ctx).ClientID, req.ShortURL); err != nil {
		if errors.Is(err, recent.ErrInvalidOwner) {
			return nil, huma.Error400BadRequest("missing client id")
		}

		h.logger.Error("failed to delete recent link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete recent link")
	}

	return nil, nil
}

// validationProblem maps a *link.ValidationError to a 400 naming the offending field.
func validationProblem(err error) error {
	var verr *link.ValidationError
	if errors.As(err, &verr) {
		return huma.Error400BadRequest(verr.Message, &huma.ErrorDetail{
			Location: "body." + verr.Field,
			Message:  verr.Message,
		})
	}

	return huma.NewError(http.StatusBadRequest, err.Error())
}
