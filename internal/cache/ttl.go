package cache

import (
	"sync"
	"time"
)

// TTLStore is the keyed counter cache the article access gate depends on.
// The in-memory implementation below is fine for a single instance; a
// multi-instance deployment should swap in a centralized store, otherwise
// read quotas degrade to per-instance.
type TTLStore interface {
	Get(key string) (int, bool)
	Set(key string, value int)
}

type entry struct {
	value     int
	expiresAt time.Time
}

// InMemoryTTL is a process-wide counter cache with a fixed TTL per key.
// The TTL window starts at first write and is not extended by later
// writes, so a viewer's counter resets a fixed time after their first read.
type InMemoryTTL struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemoryTTL(ttl time.Duration) *InMemoryTTL {
	c := &InMemoryTTL{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	go c.cleanup()
	return c
}

func (c *InMemoryTTL) Get(key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return 0, false
	}
	return e.value, true
}

func (c *InMemoryTTL) Set(key string, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	expires := c.now().Add(c.ttl)
	if e, ok := c.entries[key]; ok && !c.now().After(e.expiresAt) {
		expires = e.expiresAt
	}
	c.entries[key] = entry{value: value, expiresAt: expires}
}

func (c *InMemoryTTL) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		c.mu.Lock()
		now := c.now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.mu.Unlock()
	}
}
