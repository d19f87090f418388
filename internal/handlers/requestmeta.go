package handlers

import "context"

// ClientIDHeader carries the identifier that scopes recent-link history.
const ClientIDHeader = "X-Client-ID"

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for analytics and per-client state.
type RequestMeta struct {
	ClientID  string
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
