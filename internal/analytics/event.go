package analytics

import "time"

const (
	TopicLinkCreated  = "link.created"
	TopicLinkResolved = "link.resolved"
)

// LinkCreatedEvent is emitted when a fragment link is composed.
type LinkCreatedEvent struct {
	ShortURL       string    `json:"shortUrl"`
	URL            string    `json:"url"`
	Kind           string    `json:"kind"`
	Slug           string    `json:"slug,omitempty"`
	FragmentLength int       `json:"fragmentLength"`
	CreatedAt      time.Time `json:"createdAt"`
	ClientIP       string    `json:"clientIp"`
	UserAgent      string    `json:"userAgent"`
}

// LinkResolvedEvent is emitted when a fragment is decoded server side.
type LinkResolvedEvent struct {
	Strategy       string    `json:"strategy"`
	URL            string    `json:"url"`
	FragmentLength int       `json:"fragmentLength"`
	ResolvedAt     time.Time `json:"resolvedAt"`
	ClientIP       string    `json:"clientIp"`
	UserAgent      string    `json:"userAgent"`
	Referrer       string    `json:"referrer"`
}
