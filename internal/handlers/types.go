package handlers

import (
	"time"

	"github.com/serroba/fraglink/internal/recent"
)

// LinkBody describes a composed fragment link.
type LinkBody struct {
	ShortURL  string    `doc:"The shareable link"            example:"http://localhost:8888/o.html#N4IgbghgDgrgzgUwQBwO4gFzgF4A" json:"shortUrl"`
	Fragment  string    `doc:"The encoded payload"           example:"N4IgbghgDgrgzgUwQBwO4gFzgF4A"                              json:"fragment"`
	URL       string    `doc:"The destination carried"       example:"https://example.com/very/long/path"                        json:"url"`
	Slug      string    `doc:"Optional label"                                                                                     json:"slug"`
	CreatedAt time.Time `doc:"When the link was composed"                                                                         json:"createdAt"`
}

// LinkResponse is returned by every link creation endpoint.
type LinkResponse struct {
	Location string `doc:"The shareable link" header:"Location"`
	Body     LinkBody
}

// CreateLinkRequest creates a link to an http(s) or mailto: destination.
type CreateLinkRequest struct {
	Body struct {
		URL  string `doc:"Destination URL"      example:"https://example.com/very/long/path" json:"url"`
		Slug string `doc:"Optional label"       maxLength:"64"                              json:"slug,omitempty"`
	}
}

// CreateWhatsAppRequest creates a link to a wa.me chat.
type CreateWhatsAppRequest struct {
	Body struct {
		Country string `doc:"Country calling code, default 91" example:"91"          json:"country,omitempty"`
		Number  string `doc:"Phone number, 6-15 digits"        example:"9876543210"  json:"number,omitempty"`
		Message string `doc:"Prefilled message, default Hello" example:"Hi there"    json:"message,omitempty"`
	}
}

// CreateMailtoRequest creates a link to a prefilled email.
type CreateMailtoRequest struct {
	Body struct {
		Email   string `doc:"Recipient"     example:"someone@example.com" json:"email,omitempty"`
		Subject string `doc:"Email subject" example:"Hello"               json:"subject,omitempty"`
		Body    string `doc:"Email body"    example:"See you soon"        json:"body,omitempty"`
	}
}

// ListRecentResponse lists the caller's recent links, newest first.
type ListRecentResponse struct {
	Body struct {
		Links []recent.Entry `json:"links"`
	}
}

// DeleteRecentRequest removes a link from the caller's history.
type DeleteRecentRequest struct {
	ShortURL string `doc:"The shareable link to forget" query:"shortUrl" required:"true"`
}

// ResolveRequest decodes a fragment or a full link.
type ResolveRequest struct {
	Body struct {
		Fragment string `doc:"A fragment, with or without '#', or a full link" json:"fragment"`
	}
}

// ResolveResponse carries the decoded record.
type ResolveResponse struct {
	Body struct {
		URL      string         `doc:"The destination"                       json:"url"`
		Record   map[string]any `doc:"The full decoded record"               json:"record"`
		Strategy string         `doc:"The decoding attempt that succeeded"   json:"strategy"`
	}
}

// RedirectRequest resolves a fragment passed as a path segment.
type RedirectRequest struct {
	Fragment string `doc:"The encoded payload" path:"fragment"`
}

// RedirectResponse redirects to the decoded destination.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// QRRequest renders a link as a PNG.
type QRRequest struct {
	Link string `doc:"Text to encode"                 maxLength:"4096" query:"link" required:"true"`
	Size int    `doc:"QR edge in pixels before padding" maximum:"2048" minimum:"64" query:"size"`
}

// QRResponse is a PNG image.
type QRResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	CacheControl       string `header:"Cache-Control"`
	Body               []byte
}
