package memo

import (
	"context"
	"time"

	"github.com/jonwraymond/memoize/cache"
	"github.com/jonwraymond/memoize/keylock"
	"github.com/jonwraymond/memoize/observe"
)

// Func is the signature of a function that can be memoized. Arguments must
// be scalars (strings, booleans, integers, floats) or nil for "absent".
type Func[R any] func(ctx context.Context, args ...any) (R, error)

// Cloner is implemented by result types that need a defensive copy. When R
// implements it, the cache stores a clone and every cached return is a
// clone, so no caller can mutate shared cached state.
type Cloner[R any] interface {
	Clone() R
}

// Memoized wraps a Func with a bounded, expiring result cache and per-key
// single-flight execution.
//
// Contract:
//   - Concurrency: Call is safe for concurrent use.
//   - Single-flight: for a given key at most one invocation of the wrapped
//     function is in progress; concurrent callers wait and share its result.
//   - Errors: failures of the wrapped function are returned unchanged and
//     never cached.
//   - Context: ctx is passed to the wrapped function and bounds only the wait
//     for the key's lock. The wrapped function is never cancelled or timed
//     out by Memoized.
type Memoized[R any] struct {
	fn      Func[R]
	arity   int
	cache   *cache.FIFOCache[R]
	locks   *keylock.Registry
	keyer   Keyer
	meta    observe.FuncMeta
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
}

// New memoizes fn, which takes exactly arity arguments.
func New[R any](opts Options, arity int, fn Func[R]) (*Memoized[R], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, ErrNilFunc
	}
	if arity < 0 {
		return nil, ErrInvalidArity
	}
	opts = opts.withDefaults()
	meta := observe.FuncMeta{Name: opts.Name, Arity: arity}

	m := &Memoized[R]{
		fn:      fn,
		arity:   arity,
		keyer:   opts.Keyer,
		meta:    meta,
		logger:  opts.Logger.WithFunc(meta),
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}

	c, err := cache.NewFIFOCache[R](opts.Size, opts.TTL, cache.WithEvictCallback(m.onEvict))
	if err != nil {
		return nil, err
	}
	m.cache = c

	if opts.ReclaimLocks {
		m.locks = keylock.New(keylock.WithReclaim())
	} else {
		m.locks = keylock.New()
	}

	return m, nil
}

// Call returns the cached result for args, or invokes the wrapped function
// once per key and caches its result.
func (m *Memoized[R]) Call(ctx context.Context, args ...any) (R, error) {
	var zero R

	if len(args) != m.arity {
		return zero, &ArityError{Got: len(args), Want: m.arity}
	}

	key, err := m.keyer.Key(args)
	if err != nil {
		return zero, err
	}

	// Fast path: lock-free read
	if value, ok := m.cache.Get(key); ok {
		m.metrics.RecordLookup(ctx, m.meta, observe.LookupHit)
		m.logger.Debug(ctx, "cache hit", keyField(key))
		return m.clone(value), nil
	}

	if err := m.locks.Acquire(ctx, key); err != nil {
		return zero, err
	}
	defer m.locks.Release(key)

	// Another caller may have stored the result while we waited.
	if value, ok := m.cache.Get(key); ok {
		m.metrics.RecordLookup(ctx, m.meta, observe.LookupShared)
		m.logger.Debug(ctx, "result shared with waiting caller", keyField(key))
		return m.clone(value), nil
	}
	m.metrics.RecordLookup(ctx, m.meta, observe.LookupMiss)
	m.logger.Debug(ctx, "cache miss", keyField(key))

	value, err := m.invoke(ctx, key, args)
	if err != nil {
		return zero, err
	}

	m.cache.Set(key, m.clone(value))
	return value, nil
}

func (m *Memoized[R]) invoke(ctx context.Context, key string, args []any) (R, error) {
	ctx, span := m.tracer.StartSpan(ctx, m.meta)
	start := time.Now()

	value, err := m.fn(ctx, args...)

	duration := time.Since(start)
	m.tracer.EndSpan(span, err)
	m.metrics.RecordInvocation(ctx, m.meta, duration, err)

	if err != nil {
		m.logger.Error(ctx, "memoized function failed",
			keyField(key),
			observe.Field{Key: "duration_ms", Value: float64(duration.Milliseconds())},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return value, err
	}

	m.logger.Debug(ctx, "memoized function completed",
		keyField(key),
		observe.Field{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	)
	return value, nil
}

// CacheSize returns the number of live cached results.
func (m *Memoized[R]) CacheSize() int {
	return m.cache.Size()
}

// ClearCache drops every cached result. Invocations already past lock
// acquisition still store their result when they finish.
func (m *Memoized[R]) ClearCache() {
	m.cache.Clear()
}

// LockCount returns the number of keys with lock state.
func (m *Memoized[R]) LockCount() int {
	return m.locks.Len()
}

// Arity returns the number of arguments Call expects.
func (m *Memoized[R]) Arity() int {
	return m.arity
}

func (m *Memoized[R]) clone(v R) R {
	if c, ok := any(v).(Cloner[R]); ok {
		return c.Clone()
	}
	return v
}

// keyField never exposes argument values.
func keyField(key string) observe.Field {
	return observe.Field{Key: "key_hash", Value: keyDigest(key)}
}

func (m *Memoized[R]) onEvict(_ string, reason cache.EvictReason) {
	m.metrics.RecordEviction(context.Background(), m.meta, reason.String())
}
