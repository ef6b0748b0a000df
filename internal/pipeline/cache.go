package pipeline

import (
	"sort"
	"sync"
)

// Cache maps pipeline keys to backend objects. Entries live as long as
// the cache, nothing is evicted.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]T
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// GetOrCreate returns the entry for key, calling build on a miss. The
// bool reports whether build ran and succeeded. Failed builds are not stored.
func (c *Cache[T]) GetOrCreate(key string, build func() (T, error)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		return v, false, nil
	}
	v, err := build()
	if err != nil {
		var zero T
		return zero, false, err
	}
	c.entries[key] = v
	return v, true, nil
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Each calls fn for every entry in key order.
func (c *Cache[T]) Each(fn func(key string, v T)) {
	c.mu.Lock()
	entries := make(map[string]T, len(c.entries))
	keys := make([]string, 0, len(c.entries))
	for k, v := range c.entries {
		keys = append(keys, k)
		entries[k] = v
	}
	c.mu.Unlock()

	sort.Strings(keys)
	for _, k := range keys {
		fn(k, entries[k])
	}
}

// Clear hands every entry to release and empties the cache.
func (c *Cache[T]) Clear(release func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if release != nil {
		for _, v := range c.entries {
			release(v)
		}
	}
	c.entries = make(map[string]T)
}
