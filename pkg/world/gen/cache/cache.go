// Package cache provides a fixed-capacity, direct-mapped memoization table.
//
// A Cache is lossy: two keys that hash to the same slot evict each other.
// It is not safe for concurrent use; each owner keeps its own instance.
package cache

// Options tweak cache behaviour.
type Options struct {
	// AlwaysMiss makes every lookup recompute the value while still
	// maintaining the slot table. The returned values are identical to a
	// working cache since generators are deterministic.
	AlwaysMiss bool
}

type slot[K comparable, V any] struct {
	key   K
	value V
	used  bool
}

// Cache memoizes gen(key) in a fixed array of slots indexed by hash(key).
type Cache[K comparable, V any] struct {
	slots []slot[K, V]
	hash  func(K) int
	gen   func(K) V
	opts  Options

	calls int
	hits  int
}

// New creates a cache with the given capacity. It panics if capacity < 1.
func New[K comparable, V any](capacity int, hash func(K) int, gen func(K) V) *Cache[K, V] {
	return NewWithOptions(capacity, hash, gen, Options{})
}

// NewWithOptions is New with explicit options.
func NewWithOptions[K comparable, V any](capacity int, hash func(K) int, gen func(K) V, opts Options) *Cache[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be positive")
	}
	return &Cache[K, V]{
		slots: make([]slot[K, V], capacity),
		hash:  hash,
		gen:   gen,
		opts:  opts,
	}
}

// Get returns the value for key, computing and storing it on a miss.
func (c *Cache[K, V]) Get(key K) V {
	i := c.hash(key) % len(c.slots)
	if i < 0 {
		i += len(c.slots)
	}
	s := &c.slots[i]
	if !c.opts.AlwaysMiss && s.used && s.key == key {
		c.hits++
		return s.value
	}
	c.calls++
	v := c.gen(key)
	s.key, s.value, s.used = key, v, true
	return v
}

// Cap returns the fixed slot count.
func (c *Cache[K, V]) Cap() int { return len(c.slots) }

// Stats returns how many times the generator ran and how many lookups hit.
func (c *Cache[K, V]) Stats() (calls, hits int) { return c.calls, c.hits }
