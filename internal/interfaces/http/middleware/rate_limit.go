// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/redis"
)

// RateLimit implements per-client rate limiting using Redis. Requests pass when Redis is down.
func RateLimit(limiter *redis.RateLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		allowance, err := limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(allowance.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(allowance.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(allowance.ResetAt.Unix(), 10))

		if !allowance.Allowed {
			retryAfter := int(time.Until(allowance.ResetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
