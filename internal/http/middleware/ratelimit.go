// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter with one
// bucket per caller. Buckets live in an expiring LRU, so idle callers are
// forgotten after the TTL and the number of tracked callers stays bounded.
//
// The limiter is process-local and meant for abuse control, not
// authorization. Replays flagged by IdempotencyValidator skip it.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimitCallers bounds the number of tracked buckets.
	DefaultRateLimitCallers = 10_000
	// DefaultRateLimitTTL forgets a caller after this much inactivity.
	DefaultRateLimitTTL = 10 * time.Minute
)

// keyFunc maps a request to its bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys signed-in callers by user id and everyone else by client
// IP, with "user:" and "ip:" prefixes so the namespaces never collide.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get(ctxKeyUserID); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// RateLimiter is a per-key token-bucket limiter. It is safe for concurrent
// use.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	keyFn   keyFunc
	buckets *expirable.LRU[string, *rate.Limiter]
	exempt  map[string]struct{}
}

// NewRateLimiter constructs a limiter allowing rps tokens per second with the
// given burst (coerced to at least 1). exempt lists route paths that are
// never limited, such as health probes.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc, exempt ...string) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if keyFn == nil {
		keyFn = KeyByUserOrIP()
	}
	ex := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		ex[p] = struct{}{}
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: expirable.NewLRU[string, *rate.Limiter](DefaultRateLimitCallers, nil, DefaultRateLimitTTL),
		exempt:  ex,
	}
}

// limiter returns the bucket for key, creating it on first use. Concurrent
// first requests for one key may each create a bucket; the last Add wins,
// which only costs that caller a few extra tokens once.
func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if lim, ok := rl.buckets.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets.Add(key, lim)
	return lim
}

// Tracked returns the number of buckets currently held.
func (rl *RateLimiter) Tracked() int { return rl.buckets.Len() }

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the limits. Denied requests get 429 rate_limited
// with Retry-After: 1.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := rl.exempt[c.FullPath()]; ok || IsRateBypass(c) {
			c.Next()
			return
		}
		if rl.limiter(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		abortJSON(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}
