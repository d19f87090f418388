package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/ratelimit"
)

// RegisterRoutes registers the link, resolve and QR operations.
func RegisterRoutes(api huma.API, links *LinkHandler, resolver *ResolveHandler, qrs *QRHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/links",
		Summary:       "Create fragment link",
		Description:   "Encodes an http(s) or mailto: destination into the fragment of a shareable link.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID:   "create-whatsapp-link",
		Method:        http.MethodPost,
		Path:          "/links/whatsapp",
		Summary:       "Create WhatsApp link",
		Description:   "Builds a wa.me chat link and encodes it into a shareable link.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, links.CreateWhatsApp)

	huma.Register(api, huma.Operation{
		OperationID:   "create-mailto-link",
		Method:        http.MethodPost,
		Path:          "/links/mailto",
		Summary:       "Create email link",
		Description:   "Builds a mailto: link with optional subject and body and encodes it into a shareable link.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, links.CreateMailto)

	huma.Register(api, huma.Operation{
		OperationID: "list-recent-links",
		Method:      http.MethodGet,
		Path:        "/links/recent",
		Summary:     "List recent links",
		Description: "Lists links created by the calling client (X-Client-ID), newest first.",
		Tags:        []string{"Links"},
	}, links.ListRecent)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-recent-link",
		Method:        http.MethodDelete,
		Path:          "/links/recent",
		Summary:       "Forget a recent link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, links.DeleteRecent)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-fragment",
		Method:      http.MethodPost,
		Path:        "/resolve",
		Summary:     "Decode fragment",
		Description: "Decodes a fragment produced by any encoder generation.",
		Tags:        []string{"Resolve"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRead},
		},
	}, resolver.Resolve)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-fragment",
		Method:      http.MethodGet,
		Path:        "/r/{fragment}",
		Summary:     "Redirect to decoded destination",
		Tags:        []string{"Resolve"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, resolver.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "render-qr",
		Method:      http.MethodGet,
		Path:        "/qr",
		Summary:     "Render QR code",
		Description: "Renders text as a PNG QR code with a white margin.",
		Tags:        []string{"QR"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRender},
		},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "PNG image",
				Content:     map[string]*huma.MediaType{"image/png": {}},
			},
		},
	}, qrs.Render)
}

// RegisterStats registers the analytics counters endpoint.
func RegisterStats(api huma.API, h *StatsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Analytics counters",
		Tags:        []string{"Analytics"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Stats)
}

// RegisterPage mounts the static resolver page on the router.
func RegisterPage(router chi.Router) {
	router.Get(link.PagePath, ResolverPage)
}
