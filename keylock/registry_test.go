package keylock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// refs reports holder+waiter count for key, for synchronizing tests.
func (r *Registry) refs(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[key]; ok {
		return l.refs
	}
	return 0
}

func waitForRefs(t *testing.T, r *Registry, key string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for r.refs(key) != want {
		if time.Now().After(deadline) {
			t.Fatalf("refs(%q) = %d, want %d", key, r.refs(key), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRegistry_AcquireRelease(t *testing.T) {
	r := New()
	ctx := context.Background()

	if err := r.Acquire(ctx, "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	r.Release("a")

	// Lock is reusable after release
	if err := r.Acquire(ctx, "a"); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	r.Release("a")
}

func TestRegistry_ReleaseUnheldIsNoop(t *testing.T) {
	r := New()

	// Unknown key
	r.Release("never-acquired")

	// Known key, already released
	if err := r.Acquire(context.Background(), "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	r.Release("a")
	r.Release("a")

	if !r.TryAcquire("a") {
		t.Error("lock should be free after double release")
	}
	r.Release("a")
}

func TestRegistry_KeysAreIndependent(t *testing.T) {
	r := New()
	ctx := context.Background()

	if err := r.Acquire(ctx, "a"); err != nil {
		t.Fatalf("Acquire(a) failed: %v", err)
	}
	defer r.Release("a")

	done := make(chan error, 1)
	go func() {
		done <- r.Acquire(ctx, "b")
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Acquire(b) failed: %v", err)
		}
		r.Release("b")
	case <-time.After(time.Second):
		t.Fatal("Acquire(b) blocked behind a different key")
	}
}

func TestRegistry_MutualExclusion(t *testing.T) {
	r := New()
	ctx := context.Background()

	var inside, maxInside int32
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			if err := r.Acquire(ctx, "shared"); err != nil {
				return err
			}
			defer r.Release("shared")

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(100 * time.Microsecond)
			atomic.AddInt32(&inside, -1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maxInside != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxInside)
	}
}

func TestRegistry_FIFOOrder(t *testing.T) {
	r := New()
	ctx := context.Background()

	if err := r.Acquire(ctx, "k"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	const waiters = 5
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := r.Acquire(ctx, "k"); err != nil {
				t.Errorf("waiter %d: %v", id, err)
				return
			}
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			r.Release("k")
		}(i)
		// Holder plus i+1 queued waiters
		waitForRefs(t, r, "k", i+2)
	}

	r.Release("k")
	wg.Wait()

	for i, id := range order {
		if id != i {
			t.Fatalf("grant order = %v, want ascending", order)
		}
	}
}

func TestRegistry_AcquireContextCancelled(t *testing.T) {
	r := New()

	if err := r.Acquire(context.Background(), "k"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Acquire(ctx, "k")
	if !errors.Is(err, ErrAcquire) {
		t.Errorf("error = %v, want ErrAcquire", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}

	// The abandoned waiter must not hold up the next one.
	r.Release("k")
	if !r.TryAcquire("k") {
		t.Error("lock should be free after holder released")
	}
	r.Release("k")
}

func TestRegistry_NoReclaimByDefault(t *testing.T) {
	r := New()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := r.Acquire(ctx, key); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		r.Release(key)
	}
	if r.Len() != 10 {
		t.Errorf("Len = %d, want 10", r.Len())
	}
}

func TestRegistry_WithReclaim(t *testing.T) {
	r := New(WithReclaim())
	ctx := context.Background()

	if err := r.Acquire(ctx, "k"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Acquire(ctx, "k"); err != nil {
			t.Errorf("waiter: %v", err)
			return
		}
		r.Release("k")
	}()
	waitForRefs(t, r, "k", 2)

	// Waiter still references the lock, so it must survive this release.
	r.Release("k")
	<-done

	if r.Len() != 0 {
		t.Errorf("Len = %d after all holders released, want 0", r.Len())
	}

	if !r.TryAcquire("k") {
		t.Fatal("TryAcquire on reclaimed key should succeed")
	}
	if r.TryAcquire("k") {
		t.Error("TryAcquire on held key should fail")
	}
	r.Release("k")
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
