package cache

// Cache is a generic LRU cache holding at most limit entries.
// A limit <= 0 means unlimited.
type Cache[K comparable, V any] struct {
	entries map[K]*node[K, V]
	order   list[K, V]
	limit   int
	stats   Stats
}

// Stats counts cache activity.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Limit is the maximum number of entries, 0 if unlimited.
	Limit int
	// Hits and Misses count Get and GetOrCreate lookups.
	Hits   uint64
	Misses uint64
	// Evictions counts entries dropped to stay within Limit.
	Evictions uint64
}

// HitRate returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// New creates a cache holding at most limit entries.
func New[K comparable, V any](limit int) *Cache[K, V] {
	if limit < 0 {
		limit = 0
	}
	return &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   limit,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.order.moveToFront(n)
	return n.value, true
}

// Set stores value for key, evicting the least recently used entry when the
// cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value}
	c.entries[key] = n
	c.order.pushFront(n)
	if c.limit > 0 {
		for c.order.len > c.limit {
			c.evict()
		}
	}
}

// GetOrCreate returns the cached value for key, or stores and returns the
// result of create. If create fails nothing is stored.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	n, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.remove(n)
	delete(c.entries, key)
	return true
}

// Clear removes every entry. Counters are kept.
func (c *Cache[K, V]) Clear() {
	clear(c.entries)
	c.order = list[K, V]{}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, V]) Stats() Stats {
	s := c.stats
	s.Len = len(c.entries)
	s.Limit = c.limit
	return s
}

func (c *Cache[K, V]) evict() {
	n := c.order.back()
	if n == nil {
		return
	}
	c.order.remove(n)
	delete(c.entries, n.key)
	c.stats.Evictions++
}
