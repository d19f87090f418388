package middleware

import (
	"regexp"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/fraglink/internal/handlers"
)

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// RequestMeta stores client id, IP, user-agent and referrer in the request context.
// A client without a well-formed X-Client-ID header is issued one by newID;
// the id in effect is echoed in the response header.
func RequestMeta(_ huma.API, newID func() string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		clientID := ctx.Header(handlers.ClientIDHeader)
		if !clientIDPattern.MatchString(clientID) {
			clientID = newID()
		}

		ctx.SetHeader(handlers.ClientIDHeader, clientID)

		meta := handlers.RequestMeta{
			ClientID:  clientID,
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}
