package store

import (
	"context"
	"maps"
	"sync"

	"github.com/serroba/fraglink/internal/analytics"
)

// Stats counts events by link kind and by decoding strategy.
type Stats struct {
	Created    map[string]int64 `json:"created"`
	Resolved   map[string]int64 `json:"resolved"`
	TotalBytes int64            `json:"fragmentBytes"`
}

// Memory is an analytics.Store aggregating counters in memory.
type Memory struct {
	mu    sync.Mutex
	stats Stats
}

// NewMemory creates an empty in-memory analytics store.
func NewMemory() *Memory {
	return &Memory{
		stats: Stats{
			Created:  make(map[string]int64),
			Resolved: make(map[string]int64),
		},
	}
}

func (m *Memory) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Created[event.Kind]++
	m.stats.TotalBytes += int64(event.FragmentLength)

	return nil
}

func (m *Memory) SaveLinkResolved(_ context.Context, event *analytics.LinkResolvedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Resolved[event.Strategy]++

	return nil
}

// Snapshot returns a copy of the current counters.
func (m *Memory) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Created:    maps.Clone(m.stats.Created),
		Resolved:   maps.Clone(m.stats.Resolved),
		TotalBytes: m.stats.TotalBytes,
	}
}

// Compile-time check.
var _ analytics.Store = (*Memory)(nil)
