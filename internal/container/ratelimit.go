package container

import (
	"time"

	"github.com/serroba/fraglink/internal/ratelimit"
	"github.com/serroba/fraglink/internal/store"
)

// prunedRateLimitStore drops idle keys from the in-memory store on every tick until shut down.
type prunedRateLimitStore struct {
	*store.RateLimitMemoryStore

	stop chan struct{}
	done chan struct{}
}

func newPrunedRateLimitStore(interval, window time.Duration) *prunedRateLimitStore {
	s := &prunedRateLimitStore{
		RateLimitMemoryStore: store.NewRateLimitMemoryStore(),
		stop:                 make(chan struct{}),
		done:                 make(chan struct{}),
	}

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Prune(window)
			}
		}
	}()

	return s
}

func (s *prunedRateLimitStore) Shutdown() error {
	close(s.stop)
	<-s.done

	return nil
}

func longestWindow(policy *ratelimit.Policy) time.Duration {
	var longest time.Duration

	for _, limits := range policy.Limits {
		for _, limit := range limits {
			longest = max(longest, limit.Window)
		}
	}

	return longest
}
