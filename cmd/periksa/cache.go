// cmd/periksa/cache.go
package main

import (
	"sync"
	"time"
)

// cacheEntry is one cached value with its expiry
type cacheEntry struct {
	value     interface{}
	expireAt  time.Time
	createdAt time.Time
}

// Cache is an in-memory TTL cache. The pipeline uses it to keep
// repeated checks of the same viral link from re-fetching pages and
// re-querying fact-check sources.
type Cache struct {
	entries    map[string]cacheEntry
	mutex      sync.RWMutex
	maxEntries int
	defaultTTL time.Duration
}

// NewCache creates a cache with the given default TTL and size cap
func NewCache(defaultTTL time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
	}
}

// Set stores a value under the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with an explicit TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[key] = cacheEntry{
		value:     value,
		expireAt:  now.Add(ttl),
		createdAt: now,
	}

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

// Get retrieves a value; expired entries read as absent
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expireAt) {
		return nil, false
	}
	return entry.value, true
}

// Delete removes an entry
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
}

// Len reports the number of stored entries, expired ones included
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// evictOldest drops the oldest entry; caller holds the write lock
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.createdAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.createdAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
