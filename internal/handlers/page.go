package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed static/o.html
var resolverPage []byte

// ResolverPage serves the static page composed links point at.
// The fragment never reaches the server; the page posts it to /resolve.
func ResolverPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Referrer-Policy", "no-referrer")
	_, _ = w.Write(resolverPage)
}
