package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sovereign/api/internal/config"
)

// TaskRunner matches the async runner; the counter increment is a
// detached side effect and never delays the response.
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

// CounterStore tracks request counts per key with a rolling expiry.
type CounterStore interface {
	Count(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string, window time.Duration) error
}

// RateLimit caps requests per client IP inside a rolling window. The
// limiter is best-effort: if the counter store is unreachable the
// request proceeds.
func RateLimit(counter CounterStore, tasks TaskRunner, cfg config.RateLimitConfig, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		count, err := counter.Count(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit lookup failed, failing open")
			c.Next()
			return
		}

		if count > cfg.Threshold {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too Many Requests"})
			return
		}

		window := cfg.Window
		tasks.Submit("rate-limit-incr", func(ctx context.Context) error {
			return counter.Bump(ctx, key, window)
		})

		c.Next()
	}
}
