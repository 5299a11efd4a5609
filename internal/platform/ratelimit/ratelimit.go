// Package ratelimit throttles abusive clients per remote IP.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "github.com/husnhira/storefront/internal/shared/errors"
)

const (
	idleEviction  = 10 * time.Minute
	sweepInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// New returns a limiter allowing rps sustained requests with the given burst per client.
func New(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		visitors: map[string]*visitor{},
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow consumes a token for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.evict(now)
	return v.limiter.AllowN(now, 1)
}

func (l *Limiter) evict(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleEviction {
			delete(l.visitors, key)
		}
	}
}

// Middleware rejects over-limit requests with a 429 problem response.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.limit <= 0 {
			c.Next()
			return
		}
		if !l.Allow(c.ClientIP()) {
			apierrors.Respond(c, apierrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
