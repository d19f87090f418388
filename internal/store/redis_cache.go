package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/fraglink/internal/recent"
)

// RecentCacheRepository wraps a Repository with Redis caching for List.
type RecentCacheRepository struct {
	store  recent.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRecentCacheRepository creates a new Redis-cached repository decorator.
func NewRecentCacheRepository(store recent.Repository, client *redis.Client, ttl time.Duration) *RecentCacheRepository {
	return &RecentCacheRepository{
		store:  store,
		client: client,
		prefix: "recent-cache:",
		ttl:    ttl,
	}
}

// Add stores the entry in the underlying store and invalidates the cached list.
func (r *RecentCacheRepository) Add(ctx context.Context, owner string, entry recent.Entry) error {
	if err := r.store.Add(ctx, owner, entry); err != nil {
		return err
	}

	r.invalidate(ctx, owner)

	return nil
}

// List returns the cached list, falling back to the store on a miss.
func (r *RecentCacheRepository) List(ctx context.Context, owner string) ([]recent.Entry, error) {
	if entries, err := r.getFromCache(ctx, owner); err == nil {
		return entries, nil
	}

	entries, err := r.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, owner, entries)

	return entries, nil
}

// Delete removes entries from the underlying store and invalidates the cached list.
func (r *RecentCacheRepository) Delete(ctx context.Context, owner, shortURL string) error {
	if err := r.store.Delete(ctx, owner, shortURL); err != nil {
		return err
	}

	r.invalidate(ctx, owner)

	return nil
}

func (r *RecentCacheRepository) getFromCache(ctx context.Context, owner string) ([]recent.Entry, error) {
	data, err := r.client.Get(ctx, r.prefix+owner).Bytes()
	if err != nil {
		return nil, err
	}

	var entries []recent.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *RecentCacheRepository) cache(ctx context.Context, owner string, entries []recent.Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	_ = r.client.Set(ctx, r.prefix+owner, data, r.ttl).Err()
}

func (r *RecentCacheRepository) invalidate(ctx context.Context, owner string) {
	_ = r.client.Del(ctx, r.prefix+owner).Err()
}

// Shutdown is a no-op for RecentCacheRepository (client managed externally).
func (r *RecentCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ recent.Repository = (*RecentCacheRepository)(nil)
