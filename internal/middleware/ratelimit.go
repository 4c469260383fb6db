package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/contacts-hub/internal/config"
)

// RateLimiter applies a token bucket per caller to the routes it wraps. The
// caller is the authenticated user when known, otherwise the client IP. A zero
// config disables limiting.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	buckets := newCallerBuckets(cfg, time.Now)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !buckets.allow(callerKey(c)) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// callerBuckets holds one limiter per caller. A bucket left idle for a full
// interval has refilled to its burst, so it is dropped and recreated on the
// next request with the same effect.
type callerBuckets struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	buckets   map[string]*bucket
}

func newCallerBuckets(cfg config.RateLimitConfig, now func() time.Time) *callerBuckets {
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &callerBuckets{
		every:     rate.Every(perRequest),
		burst:     cfg.Requests,
		idle:      cfg.Interval,
		now:       now,
		lastSweep: now(),
		buckets:   map[string]*bucket{},
	}
}

func (b *callerBuckets) allow(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.lastSweep) >= b.idle {
		for k, bk := range b.buckets {
			if now.Sub(bk.lastSeen) >= b.idle {
				delete(b.buckets, k)
			}
		}
		b.lastSweep = now
	}

	bk, ok := b.buckets[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.every, b.burst)}
		b.buckets[key] = bk
	}
	bk.lastSeen = now
	return bk.limiter.AllowN(now, 1)
}

func callerKey(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(uuid.UUID); ok {
		return "user:" + id.String()
	}
	return "ip:" + c.RealIP()
}
