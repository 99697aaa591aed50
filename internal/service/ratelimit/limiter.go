package ratelimit

import (
	"sync"
	"time"

	xhttp "ForecastDash/pkg/http"

	"github.com/labstack/echo/v4"
)

// sweepEvery is how often idle buckets are dropped.
const sweepEvery = time.Minute

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a per-key token bucket.
type Limiter struct {
	capacity   float64
	refillRate float64 // tokens per second

	mu        sync.Mutex
	m         map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

// New creates a limiter allowing bursts of capacity and refillPerSec sustained.
func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		capacity:   capacity,
		refillRate: refillPerSec,
		m:          make(map[string]*bucket),
		now:        time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	if l.capacity <= 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
		l.lastSweep = now
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	// refill
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillRate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweep drops buckets that have refilled to capacity. A full bucket behaves
// like a missing one, so dropping it does not change any decision.
func (l *Limiter) sweep(now time.Time) {
	if l.refillRate <= 0 {
		return
	}
	for key, b := range l.m {
		if b.tokens+now.Sub(b.last).Seconds()*l.refillRate >= l.capacity {
			delete(l.m, key)
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// Middleware rejects requests over the limit, keyed by client IP.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many uploads, slow down"))
			}
			return next(c)
		}
	}
}
