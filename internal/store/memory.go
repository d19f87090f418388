package store

import (
	"context"
	"sync"

	"github.com/serroba/fraglink/internal/recent"
)

// RecentMemoryStore is an in-memory implementation of recent.Repository.
type RecentMemoryStore struct {
	mu      sync.RWMutex
	limit   int
	entries map[string][]recent.Entry // owner -> newest first
}

// NewRecentMemoryStore creates an in-memory history keeping at most limit entries per owner.
func NewRecentMemoryStore(limit int) *RecentMemoryStore {
	return &RecentMemoryStore{
		limit:   limit,
		entries: make(map[string][]recent.Entry),
	}
}

func (m *RecentMemoryStore) Add(_ context.Context, owner string, entry recent.Entry) error {
	if err := recent.ValidateOwner(owner); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[owner] = recent.Prepend(m.entries[owner], entry, m.limit)

	return nil
}

func (m *RecentMemoryStore) List(_ context.Context, owner string) ([]recent.Entry, error) {
	if err := recent.ValidateOwner(owner); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recent.Entry, len(m.entries[owner]))
	copy(out, m.entries[owner])

	return out, nil
}

func (m *RecentMemoryStore) Delete(_ context.Context, owner, shortURL string) error {
	if err := recent.ValidateOwner(owner); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := recent.Without(m.entries[owner], shortURL)
	if len(remaining) == 0 {
		delete(m.entries, owner)

		return nil
	}

	m.entries[owner] = remaining

	return nil
}

// Compile-time check.
var _ recent.Repository = (*RecentMemoryStore)(nil)
