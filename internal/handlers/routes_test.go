package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/fraglink/internal/analytics/store"
	"github.com/serroba/fraglink/internal/handlers"
	"github.com/serroba/fraglink/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) *chi.Mux {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api, func() string { return "issued-client-id" }))

	handlers.RegisterRoutes(api,
		newLinkHandler(memoryRepo(), discard(), zap.NewNop()),
		newResolveHandler(discard(), zap.NewNop()),
		qrHandler(&stubLimiter{allowed: true}),
	)
	handlers.RegisterStats(api, handlers.NewStatsHandler(func() store.Stats {
		return store.Stats{Created: map[string]int64{"url": 3}}
	}))
	handlers.RegisterPage(router)

	return router
}

func serve(router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestRoutes(t *testing.T) {
	router := newRouter(t)
	client := map[string]string{handlers.ClientIDHeader: testClientID}

	var created handlers.LinkBody

	t.Run("create returns 201 with Location", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/links", `{"url":"`+testURL+`"}`, client)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, created.ShortURL, rec.Header().Get("Location"))
		assert.Equal(t, testClientID, rec.Header().Get(handlers.ClientIDHeader))
	})

	t.Run("whatsapp and mailto builders", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/links/whatsapp", `{"number":"98765 43210"}`, client)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "https://wa.me/919876543210?text=Hello")

		rec = serve(router, http.MethodPost, "/links/mailto", `{"email":"bad"}`, client)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "body.email")
	})

	t.Run("recent history round trip", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/links/recent", "", client)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), created.ShortURL)

		rec = serve(router, http.MethodDelete, "/links/recent?shortUrl="+url.QueryEscape(created.ShortURL), "", client)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = serve(router, http.MethodGet, "/links/recent", "", client)
		assert.NotContains(t, rec.Body.String(), created.ShortURL)
	})

	t.Run("fresh clients are issued an id", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/links/recent", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "issued-client-id", rec.Header().Get(handlers.ClientIDHeader))
		assert.JSONEq(t, `{"links":[]}`, stripSchema(t, rec.Body.Bytes()))
	})

	t.Run("resolve and redirect", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/resolve", `{"fragment":"`+created.ShortURL+`"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"strategy":"lzstring"`)

		rec = serve(router, http.MethodGet, "/r/"+created.Fragment, "", nil)
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, testURL, rec.Header().Get("Location"))

		rec = serve(router, http.MethodPost, "/resolve", `{"fragment":"nope!!"}`, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("qr serves png", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/qr?link="+url.QueryEscape(created.ShortURL)+"&size=64", "", nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])

		rec = serve(router, http.MethodGet, "/qr?link=x&size=10", "", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("stats", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/stats", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"url":3`)
	})

	t.Run("resolver page", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/o.html", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "/resolve")
		assert.Contains(t, rec.Body.String(), "location.replace")
	})
}

func stripSchema(t *testing.T, body []byte) string {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	delete(m, "$schema")

	out, err := json.Marshal(m)
	require.NoError(t, err)

	return string(out)
}
