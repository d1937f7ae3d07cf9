package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter caps requests per key over a sliding window. Keys are the
// authenticated user when present, the client IP otherwise, so one
// abusive account cannot hide behind a shared NAT and one NAT cannot
// burn a signed-in user's allowance.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go r.cleanup()
	return r
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	cutoff := now.Add(-r.window)
	var live []time.Time
	for _, t := range r.requests[key] {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	if len(live) >= r.limit {
		r.requests[key] = live
		return false
	}
	r.requests[key] = append(live, now)
	return true
}

func (r *RateLimiter) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-r.window)
		for k, times := range r.requests {
			var live []time.Time
			for _, t := range times {
				if t.After(cutoff) {
					live = append(live, t)
				}
			}
			if len(live) == 0 {
				delete(r.requests, k)
			} else {
				r.requests[k] = live
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit limits by user when authenticated, otherwise by client IP.
// Mount after auth middleware so user keys are available.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id := GetUserID(c); id != 0 {
			key = fmt.Sprintf("u:%d", id)
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
