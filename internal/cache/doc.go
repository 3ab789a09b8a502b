// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, int32](64)
//	c.Set("u_color", 3)
//	loc, ok := c.Get("u_color")
//
// When a Set takes the cache over its limit, the least recently used entry
// is evicted. Get refreshes an entry.
//
// A Cache is not safe for concurrent use; the owner serializes access.
package cache
