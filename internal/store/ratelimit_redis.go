package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/fraglink/internal/ratelimit"
)

// RateLimitRedisStore implements ratelimit.Store with one sorted set per key,
// scored by request time so windows slide across server instances.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
	member func() string
}

// NewRateLimitRedisStore creates a Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) (*RateLimitRedisStore, error) {
	gen, err := nanoid.Standard(12)
	if err != nil {
		return nil, err
	}

	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
		member: gen,
	}, nil
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	k := s.prefix + key + ":" + window.String()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixNano()), Member: s.member()})
	count := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return count.Val(), nil
}

// Shutdown is a no-op for RateLimitRedisStore (client managed externally).
func (s *RateLimitRedisStore) Shutdown() error {
	return nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
