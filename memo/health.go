package memo

import (
	"context"

	"github.com/jonwraymond/memoize/health"
)

// HealthConfig configures the checker returned by HealthChecker.
type HealthConfig struct {
	// MaxLocks is the number of keys with lock state above which the check
	// reports degraded. Without ReclaimLocks lock state is never dropped, so
	// this tracks key cardinality over the function's lifetime.
	// Default: 0 (no limit)
	MaxLocks int
}

// HealthChecker reports cache occupancy and lock registry size. A full
// cache is normal FIFO operation and never degrades the status.
func (m *Memoized[R]) HealthChecker(cfg HealthConfig) health.Checker {
	return health.CheckFunc(func(context.Context) health.Result {
		return health.FromUsage(
			health.Usage{Name: "cache_size", Used: m.CacheSize()},
			health.Usage{Name: "locks", Used: m.LockCount(), Limit: cfg.MaxLocks},
		).
			WithDetail("func", m.meta.Name).
			WithDetail("cache_capacity", m.cache.Capacity()).
			WithDetail("cache_ttl", m.cache.TTL().String())
	})
}
