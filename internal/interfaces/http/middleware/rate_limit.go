// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// RateLimit is a fixed one-minute window per client IP kept in Redis. When
// Redis is unavailable requests are let through.
func RateLimit(limit int, redisClient *redis.Client, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		window := time.Now().Truncate(rateLimitWindow)
		key := fmt.Sprintf("rate_limit:%s:%d", c.ClientIP(), window.Unix())

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if count == 1 {
			if err := redisClient.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.WithError(err).Warn("Failed to set rate limit expiry")
			}
		}

		reset := window.Add(rateLimitWindow)
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(time.Until(reset).Seconds()) + 1,
			})
			return
		}

		c.Next()
	}
}
