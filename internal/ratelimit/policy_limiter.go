package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes the limit a rejected request hit.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter enforces a Policy over the scopes resolved for each request.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow records the request against every limit of every scope and stops at the first one exceeded.
// The returned LimitExceeded is nil when the request is allowed.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			count, err := l.store.Record(ctx, Key(clientKey, string(scope), limit), limit.Window)
			if err != nil {
				return false, nil, err
			}

			if count > limit.Max {
				return false, &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
			}
		}
	}

	return true, nil, nil
}

// Store returns the underlying rate limit store.
func (l *PolicyLimiter) Store() Store {
	return l.store
}

// Key builds the store key tracking one client, bucket and window.
func Key(clientKey, bucket string, limit LimitConfig) string {
	return fmt.Sprintf("%s:%s:%d", clientKey, bucket, limit.Window.Milliseconds())
}
