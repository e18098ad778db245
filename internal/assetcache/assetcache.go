// Package assetcache provides a small get-or-load cache with an explicit,
// caller-owned lifecycle.
//
// Cache scope and staleness are the caller's decision: construct one where
// you need it, invalidate when the underlying source changes. There is no
// package-level singleton.
package assetcache

import "sync"

// Cache memoizes values produced by a load function. Safe for concurrent
// use. Load errors are not cached; the next Get retries.
type Cache[K comparable, V any] struct {
	mu     sync.Mutex
	load   func(K) (V, error)
	values map[K]V
}

// New returns an empty cache backed by the given load function.
func New[K comparable, V any](load func(K) (V, error)) *Cache[K, V] {
	return &Cache[K, V]{
		load:   load,
		values: map[K]V{},
	}
}

// Get returns the cached value for key, loading it on first use.
func (c *Cache[K, V]) Get(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v, err := c.load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.values[key] = v
	return v, nil
}

// Invalidate drops the cached value for key, if any.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// Reset drops every cached value.
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = map[K]V{}
}

// Len reports the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}
