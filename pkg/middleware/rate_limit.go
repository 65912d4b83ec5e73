package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/seating-api-go/pkg/database"
)

// APIKeyContextKey is the gin context key holding the authenticated *database.APIKey
const APIKeyContextKey = "apiKey"

// DailyCounter counts requests per key per day
type DailyCounter interface {
	IncrDaily(ctx context.Context, keyID uint, now time.Time) (int64, error)
}

// RateLimit rejects a key's requests once its daily count passes the key's
// rate limit. Requests without a key, or a counter error, pass through.
func RateLimit(counter DailyCounter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get(APIKeyContextKey)
		if !ok || counter == nil {
			c.Next()
			return
		}
		apiKey := raw.(*database.APIKey)

		count, err := counter.IncrDaily(c.Request.Context(), apiKey.ID, time.Now())
		if err != nil {
			logger.Warn("rate limit check failed", zap.Uint("key_id", apiKey.ID), zap.Error(err))
			c.Next()
			return
		}

		if apiKey.RateLimit > 0 {
			remaining := int64(apiKey.RateLimit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Header("X-RateLimit-Limit", strconv.Itoa(apiKey.RateLimit))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(apiKey.RateLimit) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
