// Package cache provides the process-local TTL cache that memoizes expensive
// projection lookups. Entries expire lazily on read and can be swept
// proactively; tag sets allow bulk invalidation of everything cached for one
// client. The cache is shared across concurrent requests within a single
// process and makes no cross-instance guarantees: a miss only costs a
// recomputation, never correctness.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when a caller does not specify one.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
	tags      []string
}

// Cache is a mutex-guarded TTL map with tag-based bulk invalidation. The
// zero value is not usable; construct with New and inject it wherever
// memoization is wanted. The cache never starts background goroutines:
// Cleanup is invoked by an external scheduler.
type Cache struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	entries    map[string]entry
	tagged     map[string]map[string]struct{}
}

// New constructs an empty cache. A non-positive defaultTTL falls back to
// DefaultTTL.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		defaultTTL: defaultTTL,
		entries:    make(map[string]entry),
		tagged:     make(map[string]map[string]struct{}),
	}
}

// Get returns the live value stored under key. Expired entries are removed
// on the spot and reported as absent.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.removeLocked(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. A non-positive ttl uses the cache default.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.SetWithTags(key, value, ttl, nil)
}

// SetWithTags stores value under key and registers it under each tag so a
// later InvalidateTag removes it. Re-setting a key replaces its previous tag
// registrations.
func (c *Cache) SetWithTags(key string, value interface{}, ttl time.Duration, tags []string) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)
	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		tags:      tags,
	}
	for _, tag := range tags {
		set, ok := c.tagged[tag]
		if !ok {
			set = make(map[string]struct{})
			c.tagged[tag] = set
		}
		set[key] = struct{}{}
	}
}

// GetOrSet returns the cached value for key, or invokes producer, caches its
// result under the given tags, and returns it. Concurrent misses on the same
// key each invoke the producer; last write wins. Errors are returned to the
// caller and nothing is cached.
func (c *Cache) GetOrSet(key string, ttl time.Duration, tags []string, producer func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := producer()
	if err != nil {
		return nil, err
	}
	c.SetWithTags(key, v, ttl, tags)
	return v, nil
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// InvalidateTag removes every key registered under tag and returns how many
// entries were dropped.
func (c *Cache) InvalidateTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.tagged[tag]
	for key := range keys {
		c.removeLocked(key)
	}
	return len(keys)
}

// Cleanup sweeps all expired entries and returns how many were removed.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// Clear drops every entry and tag registration.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.tagged = make(map[string]map[string]struct{})
}

// Len reports the number of stored entries, including any not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// removeLocked drops key and its tag registrations. Callers hold c.mu.
func (c *Cache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, tag := range e.tags {
		set := c.tagged[tag]
		delete(set, key)
		if len(set) == 0 {
			delete(c.tagged, tag)
		}
	}
}
