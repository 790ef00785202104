package middleware

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwhitmore/portfolio-backend/errors"
	"github.com/jwhitmore/portfolio-backend/logger"
)

// RateLimiter caps accepted requests per source address over a fixed window.
// State is process-local and discarded on restart; instances behind a load
// balancer do not share counters.
type RateLimiter struct {
	maxRequests int
	window      time.Duration

	mu      sync.Mutex
	windows map[string]*addrWindow

	// now is swapped out in tests to drive window expiry.
	now func() time.Time
}

type addrWindow struct {
	count   int
	expires time.Time
}

// NewRateLimiter creates a rate limiter allowing maxRequests per window from
// each source address.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		windows:     make(map[string]*addrWindow),
		now:         time.Now,
	}
}

// allow atomically increments the counter for addr and reports whether the
// request is within the limit, along with the seconds until the window
// resets. Expired windows restart on first hit; other stale entries are
// pruned opportunistically to bound the map.
func (rl *RateLimiter) allow(addr string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	w, ok := rl.windows[addr]
	if !ok || now.After(w.expires) {
		rl.windows[addr] = &addrWindow{count: 1, expires: now.Add(rl.window)}
		if len(rl.windows) > 1000 {
			rl.prune(now)
		}
		return true, int(rl.window.Seconds())
	}

	w.count++
	retryAfter := int(w.expires.Sub(now).Seconds())
	return w.count <= rl.maxRequests, retryAfter
}

// prune removes expired windows. Caller must hold mu.
func (rl *RateLimiter) prune(now time.Time) {
	for addr, w := range rl.windows {
		if now.After(w.expires) {
			delete(rl.windows, addr)
		}
	}
}

// Middleware returns the gin handler gating the submission endpoint. Requests
// over the limit are rejected with 429 before reaching the pipeline.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)

		ok, retryAfter := rl.allow(ip)
		if !ok {
			logger.Event(logger.EventRateLimited, "ip", ip)

			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxRequests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}

// getClientIP extracts the real client IP from the request. It checks
// X-Forwarded-For and X-Real-IP headers first (for proxies/load balancers),
// then falls back to the connection address.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.ClientIP()
}
