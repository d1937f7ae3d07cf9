package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTTL(ttl time.Duration) (*InMemoryTTL, *time.Time) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &InMemoryTTL{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
	c.now = func() time.Time { return now }
	return c, &now
}

func TestTTLStoreSetGet(t *testing.T) {
	c, _ := newTestTTL(time.Hour)

	_, ok := c.Get("u1-42")
	assert.False(t, ok)

	c.Set("u1-42", 1)
	v, ok := c.Get("u1-42")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("u1-42", 2)
	v, _ = c.Get("u1-42")
	assert.Equal(t, 2, v)
}

func TestTTLStoreExpiry(t *testing.T) {
	c, now := newTestTTL(24 * time.Hour)

	c.Set("anonymous-7", 2)

	*now = now.Add(23 * time.Hour)
	v, ok := c.Get("anonymous-7")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	*now = now.Add(2 * time.Hour)
	_, ok = c.Get("anonymous-7")
	assert.False(t, ok)
}

// Rewrites inside the window must not extend the window: the counter
// resets a fixed time after the first read.
func TestTTLWindowNotExtendedByWrites(t *testing.T) {
	c, now := newTestTTL(24 * time.Hour)

	c.Set("u9-1", 1)
	*now = now.Add(20 * time.Hour)
	c.Set("u9-1", 2)
	*now = now.Add(5 * time.Hour)

	_, ok := c.Get("u9-1")
	assert.False(t, ok)
}
