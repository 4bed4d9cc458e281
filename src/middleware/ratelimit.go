package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-IP sliding-window limiter held in memory. It is only
// valid within a single process; sharding across processes needs external
// coordination.
type RateLimiter struct {
	mu       sync.Mutex
	now      func() time.Time
	requests map[string][]time.Time

	max    int
	window time.Duration

	lastSweep time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		now:      time.Now,
		requests: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
}

// Allow records one hit for the key and reports whether it stays within the
// window limit.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.max <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	cutoff := now.Add(-rl.window)
	recent := rl.requests[key][:0]
	for _, ts := range rl.requests[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.max {
		rl.requests[key] = recent
		return false
	}
	rl.requests[key] = append(recent, now)
	return true
}

// sweep drops stale keys every five minutes so the map does not grow without
// bound.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < 5*time.Minute {
		return
	}
	cutoff := now.Add(-rl.window)
	for key, times := range rl.requests {
		keep := times[:0]
		for _, ts := range times {
			if ts.After(cutoff) {
				keep = append(keep, ts)
			}
		}
		if len(keep) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = keep
		}
	}
	rl.lastSweep = now
}

// RateLimitMiddleware rejects clients that exceed the limiter with 429.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !rl.Allow(ctx.ClientIP()) {
			ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Muitas requisições. Tente novamente em alguns segundos."})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
