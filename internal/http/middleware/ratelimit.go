// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a process-local token-bucket rate limiter. The tracker
// has no accounts, so buckets are keyed by client IP, optionally split by
// method (RATE_KEY=ip_method) so a burst of dose logging from a phone does
// not starve the dashboard reads coming from the same address. Idempotent
// replays of POST /medications bypass the limiter.
package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate-limit key strategies accepted by KeyFuncFor.
const (
	RateKeyIP       = "ip"
	RateKeyIPMethod = "ip_method"
)

// KeyFunc maps a request to its bucket.
type KeyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by client address.
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

// KeyByClientIPAndMethod keeps separate buckets per HTTP method.
func KeyByClientIPAndMethod() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() + "|" + c.Request.Method }
}

// KeyFuncFor resolves a strategy name; empty means RateKeyIP.
func KeyFuncFor(name string) (KeyFunc, error) {
	switch name {
	case "", RateKeyIP:
		return KeyByClientIP(), nil
	case RateKeyIPMethod:
		return KeyByClientIPAndMethod(), nil
	}
	return nil, fmt.Errorf("unknown rate limit key %q", name)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per key. Buckets idle for longer than
// idleTTL are dropped by a sweep that runs at most once per idleTTL.
type RateLimiter struct {
	limit rate.Limit
	burst int
	key   KeyFunc

	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to
// burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, key KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		key:     key,
		buckets: make(map[string]*bucket),
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// limiterFor returns the bucket for key, creating it on first use.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// retryAfter is the time to refill one token, in whole seconds (at least 1).
// It is empty when the limit never refills.
func (rl *RateLimiter) retryAfter() string {
	if rl.limit <= 0 {
		return ""
	}
	return strconv.Itoa(int(math.Max(1, math.Ceil(1/float64(rl.limit)))))
}

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay that must not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyRateBypass).(bool)
	return b
}

// Handler enforces the limit, answering 429 with Retry-After when a bucket
// is empty.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || rl.limiterFor(rl.key(c)).Allow() {
			c.Next()
			return
		}
		if ra := rl.retryAfter(); ra != "" {
			c.Header("Retry-After", ra)
		}
		abort(c, http.StatusTooManyRequests, CodeTooManyRequests, "rate limit exceeded")
	}
}
