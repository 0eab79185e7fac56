package keylock

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Registry hands out one exclusive lock per key.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Fairness: waiters for a key are granted the lock in FIFO order.
// - Errors: Release on a key nobody holds is a no-op.
type Registry struct {
	mu      sync.Mutex
	locks   map[string]*keyLock
	reclaim bool
}

type keyLock struct {
	sem  *semaphore.Weighted
	held bool
	refs int // holder plus waiters
}

// Option configures a Registry.
type Option func(*Registry)

// WithReclaim removes a key's lock state once it has no holder and no
// waiters.
func WithReclaim() Option {
	return func(r *Registry) {
		r.reclaim = true
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{locks: make(map[string]*keyLock)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire blocks until the caller owns the lock for key. If ctx is done
// before the lock is granted, the caller leaves the queue and an error
// wrapping both ErrAcquire and ctx.Err() is returned.
func (r *Registry) Acquire(ctx context.Context, key string) error {
	r.mu.Lock()
	l, ok := r.locks[key]
	if !ok {
		l = &keyLock{sem: semaphore.NewWeighted(1)}
		r.locks[key] = l
	}
	l.refs++
	r.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		r.mu.Lock()
		l.refs--
		r.reclaimLocked(key, l)
		r.mu.Unlock()
		return fmt.Errorf("%w: key %q: %w", ErrAcquire, key, err)
	}

	r.mu.Lock()
	l.held = true
	r.mu.Unlock()
	return nil
}

// TryAcquire takes the lock for key only if it is free and nobody is queued.
func (r *Registry) TryAcquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[key]
	if !ok {
		l = &keyLock{sem: semaphore.NewWeighted(1)}
		r.locks[key] = l
	}
	if !l.sem.TryAcquire(1) {
		r.reclaimLocked(key, l)
		return false
	}
	l.refs++
	l.held = true
	return true
}

// Release hands the lock for key to the next waiter, or frees it.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[key]
	if !ok || !l.held {
		return
	}
	l.held = false
	l.refs--
	l.sem.Release(1)
	r.reclaimLocked(key, l)
}

// Len returns the number of keys with lock state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

func (r *Registry) reclaimLocked(key string, l *keyLock) {
	if r.reclaim && l.refs == 0 && r.locks[key] == l {
		delete(r.locks, key)
	}
}
