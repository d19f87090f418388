// Package link composes fragment links and the destinations they carry.
package link

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/serroba/fraglink/internal/payload"
)

// PagePath is the static page that resolves fragments in the browser.
const PagePath = "/o.html"

var ErrNotFragmentLink = errors.New("not a fragment link")

// Builder composes shareable links under a fixed origin.
type Builder struct {
	origin  string
	encoder *payload.Encoder
}

// NewBuilder creates a builder. Trailing slashes on origin are ignored.
func NewBuilder(origin string, enc *payload.Encoder) *Builder {
	return &Builder{
		origin:  strings.TrimRight(origin, "/"),
		encoder: enc,
	}
}

// Origin returns the origin links are composed under.
func (b *Builder) Origin() string {
	return b.origin
}

// Build encodes {u: destination} and returns the composed link and its fragment.
func (b *Builder) Build(destination string) (string, string, error) {
	fragment, err := b.encoder.Encode(payload.NewRecord(destination))
	if err != nil {
		return "", "", fmt.Errorf("build link: %w", err)
	}

	return b.origin + PagePath + "#" + fragment, fragment, nil
}

// FragmentOf returns the raw fragment of a composed link.
func FragmentOf(link string) (string, error) {
	base, fragment, found := strings.Cut(strings.TrimSpace(link), "#")
	if !found || fragment == "" {
		return "", fmt.Errorf("%w: missing fragment", ErrNotFragmentLink)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFragmentLink, err)
	}

	if path.Base(u.Path) != path.Base(PagePath) {
		return "", fmt.Errorf("%w: unexpected path %q", ErrNotFragmentLink, u.Path)
	}

	return fragment, nil
}
