package recent

import (
	"context"
	"errors"
	"time"
)

// Limit is the default number of entries kept per owner.
const Limit = 50

var ErrInvalidOwner = errors.New("invalid owner")

// Entry is one created link in an owner's history.
type Entry struct {
	ShortURL  string    `json:"shortUrl"`
	URL       string    `json:"url"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository keeps per-owner link history, newest first.
// Add drops the oldest entries beyond the configured limit.
// Delete removes every entry with the given short URL and succeeds when none match.
type Repository interface {
	Add(ctx context.Context, owner string, entry Entry) error
	List(ctx context.Context, owner string) ([]Entry, error)
	Delete(ctx context.Context, owner, shortURL string) error
}

// ValidateOwner rejects empty owner identifiers.
func ValidateOwner(owner string) error {
	if owner == "" {
		return ErrInvalidOwner
	}

	return nil
}

// Prepend returns entries with entry in front, truncated to limit.
func Prepend(entries []Entry, entry Entry, limit int) []Entry {
	out := make([]Entry, 0, min(len(entries)+1, max(limit, 1)))
	out = append(out, entry)
	out = append(out, entries...)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Without returns entries except those with the given short URL.
func Without(entries []Entry, shortURL string) []Entry {
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if e.ShortURL != shortURL {
			out = append(out, e)
		}
	}

	return out
}
