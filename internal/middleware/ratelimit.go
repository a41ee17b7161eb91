package middleware

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/signal/internal/common"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/xcontext"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter keeps one token bucket for every client address and path.
type RateLimiter struct {
	limiters    *xsync.MapOf[string, *clientLimiter]
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	now         func() time.Time
}

func NewRateLimiter(perMinute, burst int, idleTimeout time.Duration) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}

	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		limiters:    xsync.NewMapOf[*clientLimiter](),
		limit:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:       burst,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (rl *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		key := clientIP(ctx) + "|" + req.URL.Path

		if !rl.allow(key) {
			common.PromCounters[common.RateLimitedTotal].WithLabelValues(req.URL.Path).Inc()
			xcontext.Logger(ctx).Warnf("Rate limit exceeded for %s", key)
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests, please try again later")
		}

		return nil, nil
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := rl.now()

	entry, ok := rl.limiters.Load(key)
	if !ok {
		entry, _ = rl.limiters.LoadOrStore(key, &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)})
	}

	entry.lastSeen.Store(now.UnixNano())
	return entry.limiter.AllowN(now, 1)
}

// Cleanup drops the buckets of clients idle for longer than the idle timeout
// and returns how many were dropped.
func (rl *RateLimiter) Cleanup() int {
	threshold := rl.now().Add(-rl.idleTimeout).UnixNano()

	idleKeys := []string{}
	rl.limiters.Range(func(key string, entry *clientLimiter) bool {
		if entry.lastSeen.Load() < threshold {
			idleKeys = append(idleKeys, key)
		}
		return true
	})

	for _, key := range idleKeys {
		rl.limiters.Delete(key)
	}

	return len(idleKeys)
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.Cleanup(); n > 0 {
					xcontext.Logger(ctx).Debugf("Removed %d idle rate limiters", n)
				}
			}
		}
	}()
}

// clientIP prefers the address resolved by the router. Forwarding headers
// are never read here.
func clientIP(ctx context.Context) string {
	if ip := xcontext.ClientIP(ctx); ip != "" {
		return ip
	}

	req := xcontext.HTTPRequest(ctx)
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}
