package cache

import (
	"container/list"
	"sync"
	"time"
)

// Entry represents a cached item with expiration
type Entry[K comparable, V any] struct {
	Key        K
	Value      V
	Expiration time.Time
}

// IsExpired checks if the entry has expired
func (e *Entry[K, V]) IsExpired() bool {
	if e.Expiration.IsZero() {
		return false
	}
	return time.Now().After(e.Expiration)
}

// Cache is a thread-safe, size-bounded LRU cache with optional TTL.
// A Cache with MaxItems <= 0 stores nothing and counts every lookup as a
// miss.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]*list.Element
	order    *list.List // front = most recently used
	maxItems int
	ttl      time.Duration

	hits      int64
	misses    int64
	evictions int64
}

// Config holds cache configuration
type Config struct {
	MaxItems int
	TTL      time.Duration // zero means entries never expire
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{MaxItems: 100}
}

// Stats is a snapshot of cache counters
type Stats struct {
	Size      int
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns the hit percentage, 0 when nothing was looked up
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// New creates a new cache instance
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	return &Cache[K, V]{
		items:    make(map[K]*list.Element),
		order:    list.New(),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
	}
}

// Get retrieves a value and marks it most recently used
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	entry := elem.Value.(*Entry[K, V])
	if entry.IsExpired() {
		c.removeElement(elem)
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return entry.Value, true
}

// Set stores a value with the default TTL
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL, evicting the least recently
// used entry when the cache is full.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxItems <= 0 {
		return
	}

	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*Entry[K, V])
		entry.Value = value
		entry.Expiration = exp
		c.order.MoveToFront(elem)
		return
	}

	for c.order.Len() >= c.maxItems {
		c.evictOldest()
	}

	elem := c.order.PushFront(&Entry[K, V]{Key: key, Value: value, Expiration: exp})
	c.items[key] = elem
}

// GetOrSet returns the cached value for key or computes, stores and returns it
func (c *Cache[K, V]) GetOrSet(key K, fn func() (V, error)) (V, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}
	val, err := fn()
	if err != nil {
		return val, err
	}
	c.Set(key, val)
	return val, nil
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns cache statistics
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      c.order.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// evictOldest removes the least recently used entry (lock held)
func (c *Cache[K, V]) evictOldest() {
	if back := c.order.Back(); back != nil {
		c.removeElement(back)
		c.evictions++
	}
}

func (c *Cache[K, V]) removeElement(elem *list.Element) {
	entry := c.order.Remove(elem).(*Entry[K, V])
	delete(c.items, entry.Key)
}
