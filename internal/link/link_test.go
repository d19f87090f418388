package link_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("composes origin, page and fragment", func(t *testing.T) {
		b := link.NewBuilder("https://s.example.com/", payload.NewEncoder(payload.LZString{}))

		shortURL, fragment, err := b.Build("https://example.com/a?b=1")

		require.NoError(t, err)
		assert.Equal(t, "https://s.example.com/o.html#"+fragment, shortURL)
		assert.Equal(t, "https://s.example.com", b.Origin())
		assert.Equal(t, "https://example.com/a?b=1", payload.Decode(fragment).URL())
	})

	t.Run("fallback fragments decode too", func(t *testing.T) {
		b := link.NewBuilder("http://localhost:8888", payload.NewEncoder(nil))

		shortURL, fragment, err := b.Build("mailto:test@example.com?subject=Hi")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(shortURL, "http://localhost:8888/o.html#"))
		assert.Equal(t, "mailto:test@example.com?subject=Hi", payload.Decode(fragment).URL())
	})
}

func TestFragmentOf(t *testing.T) {
	t.Run("extracts fragment", func(t *testing.T) {
		fragment, err := link.FragmentOf("https://s.example.com/o.html#abc%2Bdef")

		require.NoError(t, err)
		assert.Equal(t, "abc%2Bdef", fragment)
	})

	t.Run("round trips with builder", func(t *testing.T) {
		b := link.NewBuilder("https://s.example.com", payload.NewEncoder(payload.LZString{}))
		shortURL, fragment, err := b.Build("https://example.com")
		require.NoError(t, err)

		got, err := link.FragmentOf(shortURL)

		require.NoError(t, err)
		assert.Equal(t, fragment, got)
	})

	invalid := []string{
		"https://s.example.com/o.html",
		"https://s.example.com/o.html#",
		"https://s.example.com/other#abc",
		"://bad#abc",
	}

	for _, in := range invalid {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := link.FragmentOf(in)

			assert.ErrorIs(t, err, link.ErrNotFragmentLink)
		})
	}
}

func TestValidateDestination(t *testing.T) {
	valid := map[string]string{
		"https://example.com":          "https://example.com",
		"  HTTP://EXAMPLE.COM/path  ":  "HTTP://EXAMPLE.COM/path",
		"mailto:test@example.com":      "mailto:test@example.com",
		"https://wa.me/91123?text=Hey": "https://wa.me/91123?text=Hey",
	}

	for in, want := range valid {
		t.Run("accepts "+in, func(t *testing.T) {
			got, err := link.ValidateDestination(in)

			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	invalid := map[string]string{
		"":                     "enter a URL",
		"   ":                  "enter a URL",
		"ftp://example.com":    "enter a valid http/https or mailto: URL",
		"javascript:alert(1)":  "enter a valid http/https or mailto: URL",
		"example.com":          "enter a valid http/https or mailto: URL",
		"https://" + strings.Repeat("a", link.MaxDestinationLength): "URL is too long",
	}

	for in, msg := range invalid {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := link.ValidateDestination(in)

			var verr *link.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "url", verr.Field)
			assert.Equal(t, msg, verr.Message)
		})
	}
}

func TestWhatsApp(t *testing.T) {
	tests := []struct {
		name     string
		req      link.WhatsAppRequest
		expected string
	}{
		{
			name:     "defaults country and message",
			req:      link.WhatsAppRequest{Number: "98765 43210"},
			expected: "https://wa.me/919876543210?text=Hello",
		},
		{
			name:     "custom country and message",
			req:      link.WhatsAppRequest{Country: "+44", Number: "(020) 7946-0000", Message: "Hi there & bye"},
			expected: "https://wa.me/4402079460000?text=Hi%20there%20%26%20bye",
		},
		{
			name:     "trims whitespace",
			req:      link.WhatsAppRequest{Country: " 1 ", Number: " 5551234 ", Message: "  "},
			expected: "https://wa.me/15551234?text=Hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := link.WhatsApp(tt.req)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	errs := []struct {
		name  string
		req   link.WhatsAppRequest
		field string
		msg   string
	}{
		{name: "missing number", req: link.WhatsAppRequest{}, field: "number", msg: "phone number required"},
		{name: "too short", req: link.WhatsAppRequest{Number: "12345"}, field: "number", msg: "enter a valid phone number (6-15 digits)"},
		{name: "too long", req: link.WhatsAppRequest{Number: "1234567890123456"}, field: "number", msg: "enter a valid phone number (6-15 digits)"},
		{name: "no digits", req: link.WhatsAppRequest{Number: "call me"}, field: "number", msg: "enter a valid phone number (6-15 digits)"},
		{name: "bad country", req: link.WhatsAppRequest{Country: "uk", Number: "123456"}, field: "country", msg: "country code must be digits"},
	}

	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := link.WhatsApp(tt.req)

			var verr *link.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.msg, verr.Message)
		})
	}
}

func TestMailto(t *testing.T) {
	tests := []struct {
		name     string
		req      link.MailtoRequest
		expected string
	}{
		{
			name:     "email only",
			req:      link.MailtoRequest{Email: "test@example.com"},
			expected: "mailto:test%40example.com",
		},
		{
			name:     "subject before body",
			req:      link.MailtoRequest{Email: "test@example.com", Subject: "Hi there", Body: "a&b=c"},
			expected: "mailto:test%40example.com?subject=Hi+there&body=a%26b%3Dc",
		},
		{
			name:     "body only",
			req:      link.MailtoRequest{Email: " test@example.com ", Body: "line"},
			expected: "mailto:test%40example.com?body=line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := link.Mailto(tt.req)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("missing email", func(t *testing.T) {
		_, err := link.Mailto(link.MailtoRequest{Subject: "x"})

		var verr *link.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "email required", verr.Message)
	})

	for _, email := range []string{"no-at-sign", "a@b", "a b@c.d", "@example.com"} {
		t.Run("invalid "+email, func(t *testing.T) {
			_, err := link.Mailto(link.MailtoRequest{Email: email})

			var verr *link.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "email", verr.Field)
			assert.Equal(t, "enter a valid email address", verr.Message)
		})
	}
}
