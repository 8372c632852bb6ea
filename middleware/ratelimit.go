package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	transporthttp "github.com/utpal03/portalkit/transport/http"
)

const visitorIdleTTL = 5 * time.Minute

type RateLimitConfig struct {
	// SkippedPathPrefixes lists path prefixes exempt from limiting.
	SkippedPathPrefixes []string

	// Rate is the sustained allowance in requests per second.
	Rate rate.Limit

	// Burst is the number of requests a client may issue at once.
	Burst int

	// KeyFunc derives the limiter key from the request. Defaults to the
	// client IP.
	KeyFunc func(c *gin.Context) string
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitWithConfig limits request throughput per client key, answering
// excess traffic with a 429. Idle clients are evicted lazily on access.
func RateLimitWithConfig(config RateLimitConfig) gin.HandlerFunc {
	matcher := NewPathMatcher(config.SkippedPathPrefixes)

	if config.Rate <= 0 {
		config.Rate = rate.Limit(1)
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string {
			return c.ClientIP()
		}
	}

	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)

	take := func(key string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastSweep) > visitorIdleTTL {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > visitorIdleTTL {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}

		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(config.Rate, config.Burst)}
			visitors[key] = v
		}
		v.lastSeen = now

		return v.limiter.Allow()
	}

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, nil) {
			c.Next()
			return
		}

		if !take(config.KeyFunc(c)) {
			transporthttp.GinError(c, http.StatusTooManyRequests, "too many requests")
			return
		}

		c.Next()
	}
}
