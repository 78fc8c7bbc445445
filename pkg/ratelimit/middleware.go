package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware returns a gin middleware enforcing the given rate limit type.
// When the limiter itself fails (e.g. Redis unavailable) the request is let
// through: rate limiting is protection, not a dependency.
func Middleware(limiter *RateLimiter, limitType RateLimitType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !limiter.config.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if limiter.IsWhitelisted(ip) {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), ip, limitType)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": result.ResetTime,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
