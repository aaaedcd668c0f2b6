// Package cache is a TTL memo in front of the evaluation engine. It knows
// nothing about write paths: whoever mutates activity data must invalidate
// the affected user's key prefix.
//
// Key convention: {domain}:{userId}[:{subId}], e.g. "journey:u1" or
// "progress:u1:t_weekly".
package cache

import (
	"strings"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: map[string]entry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewWithNow injects a clock for tests.
func NewWithNow(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	if now != nil {
		c.now = now
	}
	return c
}

// Get returns the cached value if present and unexpired. Expired entries
// are evicted lazily here rather than by a background sweeper.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a Set may have raced us.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePattern removes every key with the given prefix and returns how
// many entries were dropped.
func (c *Cache) InvalidatePattern(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = map[string]entry{}
	c.mu.Unlock()
}

// Len counts unexpired entries. Diagnostic only.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	now := c.now()
	for _, e := range c.entries {
		if !now.After(e.expiresAt) {
			n++
		}
	}
	return n
}

// JourneyKey and ProgressKey build the conventional cache keys.
func JourneyKey(userID string) string { return "journey:" + userID }

func ProgressKey(userID, taskID string) string { return "progress:" + userID + ":" + taskID }

// InvalidateUser drops every cached answer derived from one user's data.
// Call it from any write path that changes evaluation inputs.
func (c *Cache) InvalidateUser(userID string) int {
	n := c.InvalidatePattern("journey:" + userID)
	n += c.InvalidatePattern("progress:" + userID + ":")
	return n
}
