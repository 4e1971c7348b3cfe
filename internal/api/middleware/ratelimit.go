package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muse-lab/muse-server/pkg/logger"
	"github.com/muse-lab/muse-server/pkg/response"
)

// RateLimit enforces a per-client requests-per-minute cap. With redis it is
// a fixed window shared across instances, keyed by client IP; without redis
// it degrades to a process-local token bucket.
func RateLimit(rdb *redis.Client, perMin int) gin.HandlerFunc {
	if perMin <= 0 {
		perMin = 120
	}
	if rdb == nil {
		return localRateLimit(perMin)
	}
	return func(c *gin.Context) {
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		pipe := rdb.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, 2*time.Minute)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// Redis down: let traffic through rather than fail closed.
			logger.L().Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if incr.Val() > int64(perMin) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func localRateLimit(perMin int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
		Code:    http.StatusTooManyRequests,
		Message: "too many requests",
	})
}
