package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fraglink/internal/qr"
	"github.com/serroba/fraglink/internal/ratelimit"
	"go.uber.org/zap"
)

// QRHandler renders links as downloadable PNG QR codes.
type QRHandler struct {
	renderer    *qr.Renderer
	limiter     ratelimit.Limiter
	defaultSize int
	logger      *zap.Logger
}

// NewQRHandler creates a new QR handler. limiter is consulted per client IP before rendering.
func NewQRHandler(renderer *qr.Renderer, limiter ratelimit.Limiter, defaultSize int, logger *zap.Logger) *QRHandler {
	return &QRHandler{
		renderer:    renderer,
		limiter:     limiter,
		defaultSize: defaultSize,
		logger:      logger,
	}
}

func (h *QRHandler) Render(ctx context.Context, req *QRRequest) (*QRResponse, error) {
	meta := RequestMetaFromContext(ctx)

	allowed, err := h.limiter.Allow(ctx, "qr:"+meta.ClientIP)
	if err != nil {
		h.logger.Error("qr rate limit check failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("internal server error")
	}

	if !allowed {
		return nil, huma.Error429TooManyRequests("qr rendering rate exceeded, retry shortly")
	}

	size := req.Size
	if size == 0 {
		size = h.defaultSize
	}

	png, err := h.renderer.Render(req.Link, size)
	if err != nil {
		if errors.Is(err, qr.ErrEmptyContent) || errors.Is(err, qr.ErrInvalidSize) {
			return nil, huma.Error400BadRequest(err.Error())
		}

		h.logger.Warn("qr rendering failed", zap.Int("size", size), zap.Error(err))

		return nil, huma.Error422UnprocessableEntity("link cannot be rendered as a QR code")
	}

	return &QRResponse{
		ContentType:        "image/png",
		ContentDisposition: `attachment; filename="qrcode.png"`,
		CacheControl:       "public, max-age=86400, immutable",
		Body:               png,
	}, nil
}
