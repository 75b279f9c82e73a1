package cache

import (
	"sync"
	"time"
)

// Cache is a generic interface for caching operations.
// Values may be nil: a nil value with found=true is a cached negative result,
// which callers use to avoid re-querying missing mappings.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found (the value may be nil), nil and
	// false otherwise.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the specified TTL.
	Set(key string, value interface{}, ttl time.Duration)

	// GetOrSet atomically gets a value or computes and caches it if not found.
	// The compute function is only called if the key is not in cache.
	GetOrSet(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error)

	// Delete removes a specific key from the cache.
	Delete(key string)

	// Clear removes all items from the cache.
	Clear()

	// Size returns the number of items currently in the cache.
	Size() int

	// Stop gracefully shuts down the cache and its cleanup goroutine.
	Stop()
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryCache is a thread-safe in-memory cache with periodic cleanup of
// expired entries. With a cleanup interval equal to the entry TTL, no entry
// outlives twice its TTL.
type InMemoryCache struct {
	mu              sync.RWMutex
	entries         map[string]*entry
	cleanupInterval time.Duration
	quit            chan struct{}
	stopOnce        sync.Once
}

// NewInMemoryCache creates a new in-memory cache with automatic cleanup.
func NewInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	c := &InMemoryCache{
		entries:         make(map[string]*entry),
		cleanupInterval: cleanupInterval,
		quit:            make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found || e.expired(time.Now()) {
		return nil, false
	}

	return e.value, true
}

// Set stores a value in the cache with the specified TTL.
func (c *InMemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// GetOrSet atomically gets a value or computes and caches it if not found.
func (c *InMemoryCache) GetOrSet(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	e, found := c.entries[key]
	if found && !e.expired(time.Now()) {
		c.mu.RUnlock()
		return e.value, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// double-check, another goroutine may have won the write lock first
	e, found = c.entries[key]
	if found && !e.expired(time.Now()) {
		return e.value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.entries[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}

	return value, nil
}

// Delete removes a specific key from the cache.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes all items from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// Size returns the number of items currently in the cache, including expired
// items that have not been swept yet.
func (c *InMemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (c *InMemoryCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.quit)
	})
}

func (c *InMemoryCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.quit:
			return
		}
	}
}

// sweep removes all expired entries.
func (c *InMemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}
