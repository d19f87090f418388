package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/fraglink/internal/recent"
)

// RecentRedisStore keeps each owner's history in a Redis list of JSON entries.
type RecentRedisStore struct {
	client *redis.Client
	prefix string // "recent:" + owner -> list, newest at index 0
	limit  int
}

// NewRecentRedisStore creates a Redis-backed history keeping at most limit entries per owner.
func NewRecentRedisStore(client *redis.Client, limit int) *RecentRedisStore {
	return &RecentRedisStore{
		client: client,
		prefix: "recent:",
		limit:  limit,
	}
}

func (r *RecentRedisStore) Add(ctx context.Context, owner string, entry recent.Entry) error {
	if err := recent.ValidateOwner(owner); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	key := r.prefix + owner

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, data)

	if r.limit > 0 {
		pipe.LTrim(ctx, key, 0, int64(r.limit-1))
	}

	_, err = pipe.Exec(ctx)

	return err
}

func (r *RecentRedisStore) List(ctx context.Context, owner string) ([]recent.Entry, error) {
	if err := recent.ValidateOwner(owner); err != nil {
		return nil, err
	}

	items, err := r.client.LRange(ctx, r.prefix+owner, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	return decodeEntries(items), nil
}

// Delete rewrites the owner's list without the matching entries inside a WATCH transaction.
func (r *RecentRedisStore) Delete(ctx context.Context, owner, shortURL string) error {
	if err := recent.ValidateOwner(owner); err != nil {
		return err
	}

	key := r.prefix + owner

	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		items, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}

		remaining := recent.Without(decodeEntries(items), shortURL)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)

			for _, e := range remaining {
				data, err := json.Marshal(e)
				if err != nil {
					return err
				}

				pipe.RPush(ctx, key, data)
			}

			return nil
		})

		return err
	}, key)
}

// Shutdown is a no-op for RecentRedisStore (client managed externally).
func (r *RecentRedisStore) Shutdown() error {
	return nil
}

// decodeEntries skips items that are not valid entries.
func decodeEntries(items []string) []recent.Entry {
	out := make([]recent.Entry, 0, len(items))

	for _, item := range items {
		var e recent.Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}

		out = append(out, e)
	}

	return out
}

// Compile-time check.
var _ recent.Repository = (*RecentRedisStore)(nil)
