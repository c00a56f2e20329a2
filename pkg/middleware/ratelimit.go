package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/trieroute/trieroute/pkg/common"
)

// RateLimitConfig defines configuration for rate limiting.
type RateLimitConfig struct {
	// BucketName identifies this rate limit bucket. Routes sharing a
	// BucketName share the same limit.
	BucketName string

	// Limit is the maximum number of requests allowed in the time window.
	Limit int

	// Window is the time window for the rate limit.
	Window time.Duration

	// Strategy selects how clients are identified:
	// "ip" uses the client IP, "custom" uses KeyExtractor.
	Strategy string

	// KeyExtractor derives the rate limit key when Strategy is "custom".
	KeyExtractor func(c *common.Context) (string, error)

	// ExceededHandler, if set, writes the response when the limit is
	// exceeded instead of the default 429.
	ExceededHandler common.HandlerFunc
}

// RateLimiter defines the interface for rate limiting algorithms.
type RateLimiter interface {
	// Allow checks whether a request identified by key is allowed under the
	// given limit and window. It also returns the number of remaining
	// requests and the time until the window resets.
	Allow(key string, limit int, window time.Duration) (bool, int, time.Duration)
}

// UberRateLimiter implements RateLimiter with a fixed window counter for
// the allow/deny decision, backed by Uber's leaky-bucket library to smooth
// bursts within the window.
type UberRateLimiter struct {
	limiters sync.Map // map[string]ratelimit.Limiter
	states   sync.Map // map[string]*bucketState
}

type bucketState struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// NewUberRateLimiter creates a new rate limiter.
func NewUberRateLimiter() *UberRateLimiter {
	return &UberRateLimiter{}
}

// getLimiter gets or creates the pacing limiter for a key.
func (u *UberRateLimiter) getLimiter(key string, rps int) ratelimit.Limiter {
	if limiter, ok := u.limiters.Load(key); ok {
		return limiter.(ratelimit.Limiter)
	}
	limiter, _ := u.limiters.LoadOrStore(key, ratelimit.New(rps))
	return limiter.(ratelimit.Limiter)
}

// Allow checks whether a request is allowed under the key's bucket.
func (u *UberRateLimiter) Allow(key string, limit int, window time.Duration) (bool, int, time.Duration) {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}

	stateVal, _ := u.states.LoadOrStore(key, &bucketState{})
	st := stateVal.(*bucketState)

	st.mu.Lock()
	now := time.Now()
	if st.windowStart.IsZero() || now.Sub(st.windowStart) > window {
		st.windowStart = now
		st.count = 0
	}
	st.count++
	count := st.count
	reset := window - now.Sub(st.windowStart)
	st.mu.Unlock()

	if count > limit {
		return false, 0, reset
	}

	// Pace accepted requests so a full window's budget cannot land in one
	// burst.
	rps := int(float64(limit) / window.Seconds())
	if rps < 1 {
		rps = 1
	}
	u.getLimiter(key, rps).Take()

	return true, limit - count, reset
}

// extractIP returns the client IP stored by ClientIPMiddleware, falling back
// to RemoteAddr when that middleware has not run.
func extractIP(c *common.Context) string {
	if ip := ClientIP(c); ip != "" {
		return ip
	}
	return stripPort(c.Request().RemoteAddr)
}

// RateLimit creates a middleware that enforces the given rate limit. When
// the limit is exceeded it writes a 429 (or runs the configured handler)
// and halts the dispatch.
func RateLimit(config *RateLimitConfig, limiter RateLimiter, logger *zap.Logger) Middleware {
	return func(c *common.Context) common.Decision {
		if config == nil {
			return common.Proceed
		}

		var key string
		switch config.Strategy {
		case "custom":
			if config.KeyExtractor == nil {
				key = extractIP(c)
				break
			}
			var err error
			key, err = config.KeyExtractor(c)
			if err != nil {
				logger.Error("Failed to extract rate limit key",
					zap.Error(err),
					zap.String("method", c.Method),
					zap.String("path", c.Path),
				)
				http.Error(c.Writer(), "Internal Server Error", http.StatusInternalServerError)
				return common.Halt
			}
		default:
			key = extractIP(c)
		}

		bucketKey := config.BucketName + ":" + key
		allowed, remaining, reset := limiter.Allow(bucketKey, config.Limit, config.Window)

		header := c.Writer().Header()
		header.Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if !allowed {
			header.Set("Retry-After", strconv.FormatInt(int64(reset.Seconds()), 10))

			if config.ExceededHandler != nil {
				config.ExceededHandler(c)
			} else {
				http.Error(c.Writer(), "Too Many Requests", http.StatusTooManyRequests)
			}

			logger.Warn("Rate limit exceeded",
				zap.String("method", c.Method),
				zap.String("path", c.Path),
				zap.String("key", key),
				zap.Int("limit", config.Limit),
			)
			return common.Halt
		}

		return common.Proceed
	}
}
