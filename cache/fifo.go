package cache

import (
	"container/list"
	"sync"
	"time"
)

// FIFOCache is an in-memory cache with a fixed capacity and a single TTL.
//
// Eviction is strict FIFO by insertion order: when full, inserting a new key
// drops the oldest surviving entry regardless of its remaining TTL. Each entry
// expires ttl after insertion; reads never refresh the deadline.
type FIFOCache[V any] struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front is oldest
	capacity int
	ttl      time.Duration
	onEvict  func(key string, reason EvictReason)
}

type fifoEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	timer     *time.Timer
}

// FIFOOption configures a FIFOCache.
type FIFOOption func(*fifoOptions)

type fifoOptions struct {
	onEvict func(key string, reason EvictReason)
}

// WithEvictCallback registers fn to run whenever an entry is evicted for
// capacity or expiry. It is called without the cache lock held. Clear and
// Delete do not trigger it.
func WithEvictCallback(fn func(key string, reason EvictReason)) FIFOOption {
	return func(o *fifoOptions) {
		o.onEvict = fn
	}
}

// NewFIFOCache creates a cache holding at most capacity entries, each living
// for ttl after insertion.
func NewFIFOCache[V any](capacity int, ttl time.Duration, opts ...FIFOOption) (*FIFOCache[V], error) {
	if err := ValidateConfig(capacity, ttl); err != nil {
		return nil, err
	}

	var o fifoOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &FIFOCache[V]{
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		onEvict:  o.onEvict,
	}, nil
}

// Get retrieves a value. Returns (zero, false) on miss or expiry.
func (c *FIFOCache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	elem, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}

	entry := elem.Value.(*fifoEntry[V])
	if !time.Now().Before(entry.expiresAt) {
		// Timer has not fired yet - expire lazily
		c.removeElement(elem)
		c.mu.Unlock()
		c.notify(key, EvictExpired)
		return zero, false
	}
	value := entry.value
	c.mu.Unlock()

	return value, true
}

// Has reports whether key holds a live value.
func (c *FIFOCache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set inserts key as the newest entry and schedules its expiry. When the
// cache is full the oldest entry is evicted first, even if key is already
// present. An existing entry for key is replaced and loses its old position
// and deadline.
func (c *FIFOCache[V]) Set(key string, value V) {
	var evicted []string

	c.mu.Lock()
	expired := c.purgeExpiredLocked()

	// A full cache drops its oldest entry even when key is already present.
	for len(c.entries) >= c.capacity {
		oldest := c.order.Front()
		evicted = append(evicted, oldest.Value.(*fifoEntry[V]).key)
		c.removeElement(oldest)
	}
	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}

	entry := &fifoEntry[V]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	elem := c.order.PushBack(entry)
	c.entries[key] = elem
	entry.timer = time.AfterFunc(c.ttl, func() { c.expire(elem) })
	c.mu.Unlock()

	for _, k := range expired {
		c.notify(k, EvictExpired)
	}
	for _, k := range evicted {
		c.notify(k, EvictCapacity)
	}
}

// Delete removes key from the cache. Idempotent - no error on miss.
func (c *FIFOCache[V]) Delete(key string) {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.removeElement(elem)
	}
	c.mu.Unlock()
}

// Size returns the number of live entries.
func (c *FIFOCache[V]) Size() int {
	c.mu.Lock()
	expired := c.purgeExpiredLocked()
	n := len(c.entries)
	c.mu.Unlock()

	for _, k := range expired {
		c.notify(k, EvictExpired)
	}
	return n
}

// Keys returns the live keys, oldest first.
func (c *FIFOCache[V]) Keys() []string {
	c.mu.Lock()
	expired := c.purgeExpiredLocked()
	keys := make([]string, 0, len(c.entries))
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*fifoEntry[V]).key)
	}
	c.mu.Unlock()

	for _, k := range expired {
		c.notify(k, EvictExpired)
	}
	return keys
}

// Clear removes all entries. Pending expiry timers become no-ops.
func (c *FIFOCache[V]) Clear() {
	c.mu.Lock()
	for e := c.order.Front(); e != nil; e = e.Next() {
		e.Value.(*fifoEntry[V]).timer.Stop()
	}
	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.mu.Unlock()
}

// Capacity returns the maximum number of entries.
func (c *FIFOCache[V]) Capacity() int {
	return c.capacity
}

// TTL returns the lifetime given to each entry.
func (c *FIFOCache[V]) TTL() time.Duration {
	return c.ttl
}

// expire is the timer callback for elem. It only removes elem if elem is
// still the current entry for its key.
func (c *FIFOCache[V]) expire(elem *list.Element) {
	entry := elem.Value.(*fifoEntry[V])

	c.mu.Lock()
	current, ok := c.entries[entry.key]
	if !ok || current != elem {
		c.mu.Unlock()
		return
	}
	c.removeElement(elem)
	c.mu.Unlock()

	c.notify(entry.key, EvictExpired)
}

// purgeExpiredLocked drops expired entries from the front. All entries share
// one TTL, so insertion order is also deadline order.
func (c *FIFOCache[V]) purgeExpiredLocked() []string {
	var expired []string
	now := time.Now()
	for e := c.order.Front(); e != nil; e = c.order.Front() {
		entry := e.Value.(*fifoEntry[V])
		if now.Before(entry.expiresAt) {
			break
		}
		expired = append(expired, entry.key)
		c.removeElement(e)
	}
	return expired
}

func (c *FIFOCache[V]) removeElement(elem *list.Element) {
	entry := elem.Value.(*fifoEntry[V])
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

func (c *FIFOCache[V]) notify(key string, reason EvictReason) {
	if c.onEvict != nil {
		c.onEvict(key, reason)
	}
}
