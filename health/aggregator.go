package health

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout bounds each Check and CheckAll call.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxConcurrent bounds how many checks run at once.
	// Default: 0 (no limit)
	MaxConcurrent int
}

// DefaultTimeout applies when AggregatorConfig.Timeout is not positive.
const DefaultTimeout = 10 * time.Second

type namedChecker struct {
	name    string
	checker Checker
}

// Aggregator runs named checkers, typically one per memoized function.
type Aggregator struct {
	timeout time.Duration
	limit   int

	mu     sync.RWMutex
	checks []namedChecker // registration order
}

// NewAggregator creates an aggregator. At most one config is used.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	var cfg AggregatorConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Aggregator{timeout: cfg.Timeout, limit: cfg.MaxConcurrent}
}

func (a *Aggregator) indexLocked(name string) int {
	return slices.IndexFunc(a.checks, func(c namedChecker) bool { return c.name == name })
}

// Register adds checker under name. Re-registering a name replaces its
// checker and keeps its position.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.indexLocked(name); i >= 0 {
		a.checks[i].checker = checker
		return
	}
	a.checks = append(a.checks, namedChecker{name: name, checker: checker})
}

// Unregister removes name. Unknown names are ignored.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.indexLocked(name); i >= 0 {
		a.checks = slices.Delete(a.checks, i, i+1)
	}
}

// CheckerNames returns the registered names in registration order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.checks))
	for i, c := range a.checks {
		names[i] = c.name
	}
	return names
}

// Check runs the checker registered under name.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	i := a.indexLocked(name)
	var checker Checker
	if i >= 0 {
		checker = a.checks[i].checker
	}
	a.mu.RUnlock()

	if checker == nil {
		return Result{}, fmt.Errorf("%w: %q", ErrCheckerNotFound, name)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return runCheck(ctx, checker), nil
}

// CheckAll runs every checker concurrently under one deadline and returns
// the results keyed by name. A checker that misses the deadline reports
// Unhealthy with ErrCheckTimeout.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checks := slices.Clone(a.checks)
	a.mu.RUnlock()

	results := make(map[string]Result, len(checks))
	if len(checks) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for _, c := range checks {
		g.Go(func() error {
			r := runCheck(gctx, c.checker)
			mu.Lock()
			results[c.name] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // failures are reported in Result

	return results
}

// OverallStatus folds results into one status. No results means healthy.
func OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, result := range results {
		overall = overall.Worse(result.Status)
	}
	return overall
}

// runCheck stamps the duration and stops waiting once ctx is done; a late
// checker's result is dropped.
func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)

	go func() {
		r := checker.Check(ctx)
		if r.CheckedAt.IsZero() {
			r.CheckedAt = start
		}
		r.Duration = time.Since(start)
		done <- r
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		r := Unhealthy("check timed out", ErrCheckTimeout)
		r.CheckedAt = start
		r.Duration = time.Since(start)
		return r
	}
}

// Checker exposes the whole aggregator as one Checker, so a service can
// nest the memo checks under its own health tree.
func (a *Aggregator) Checker() Checker {
	return CheckFunc(func(ctx context.Context) Result {
		results := a.CheckAll(ctx)

		var r Result
		switch OverallStatus(results) {
		case StatusHealthy:
			r = Healthy("all checks passed")
		case StatusDegraded:
			r = Degraded("some checks degraded")
		default:
			r = Unhealthy("some checks failed", nil)
		}

		r.Details = make(map[string]any, len(results))
		for name, res := range results {
			r.Details[name] = map[string]any{
				"status":  res.Status.String(),
				"message": res.Message,
			}
		}
		return r
	})
}
