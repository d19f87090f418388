package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketLimiter keeps one in-process token bucket per key.
// Buckets idle for longer than idleTTL are evicted on the next Allow.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewTokenBucketLimiter allows burst requests at once, refilled at perSecond tokens per second.
func NewTokenBucketLimiter(perSecond float64, burst int, idleTTL time.Duration) *TokenBucketLimiter {
	return NewTokenBucketLimiterWithClock(perSecond, burst, idleTTL, time.Now)
}

// NewTokenBucketLimiterWithClock is NewTokenBucketLimiter reading time from now.
func NewTokenBucketLimiterWithClock(
	perSecond float64, burst int, idleTTL time.Duration, now func() time.Time,
) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets: make(map[string]*bucket),
		every:   rate.Limit(perSecond),
		burst:   burst,
		idleTTL: idleTTL,
		now:     now,
	}
}

func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}

	b.lastSeen = now

	return b.limiter.AllowN(now, 1), nil
}

// Len reports how many buckets are live.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buckets)
}

func (l *TokenBucketLimiter) evict(now time.Time) {
	if l.idleTTL <= 0 {
		return
	}

	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, key)
		}
	}
}

// Compile-time check.
var _ Limiter = (*TokenBucketLimiter)(nil)
