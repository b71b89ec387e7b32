package middleware

import (
	"sync"
	"time"

	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerSecond = 5
	defaultBurstSize         = 10

	visitorSweepInterval = time.Minute
	visitorIdleExpiry    = 3 * time.Minute
)

// visitor tracks one client IP's limiter and when it was last seen, so idle
// entries can be swept.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitorsMu sync.Mutex
	visitors   = make(map[string]*visitor)

	requestsPerSecond = defaultRequestsPerSecond
	burstSize         = defaultBurstSize
)

// RateLimiter limits requests per client IP using a token bucket
func RateLimiter() echo.MiddlewareFunc {
	go sweepVisitors()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiterFor(clientIP(c)).Allow() {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

// RateLimiterWithConfig overrides the default rate and burst
func RateLimiterWithConfig(rps, burst int) echo.MiddlewareFunc {
	requestsPerSecond = rps
	burstSize = burst
	return RateLimiter()
}

func limiterFor(ip string) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	v, ok := visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)}
		visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// clientIP prefers proxy-supplied headers over the socket address
func clientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.RealIP()
}

func sweepVisitors() {
	for {
		time.Sleep(visitorSweepInterval)

		visitorsMu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > visitorIdleExpiry {
				delete(visitors, ip)
			}
		}
		visitorsMu.Unlock()
	}
}
