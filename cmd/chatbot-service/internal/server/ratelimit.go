package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// RateLimitMiddleware 基于 Redis 固定窗口的限流，按客户端 IP 计数。
// Redis 故障时放行，限流不能成为可用性瓶颈。
func RateLimitMiddleware(rdb *redis.Client, config *RateLimitConfig, logger log.Logger) gin.HandlerFunc {
	limit := config.RequestsPerMinute
	if limit <= 0 {
		limit = 30
	}
	helper := log.NewHelper(log.With(logger, "module", "ratelimit"))

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			helper.Warnf("rate limit check failed, allowing request: err=%v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, time.Minute)
		}

		if count > int64(limit) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
				Code:    429,
				Message: "rate limit exceeded, try again later",
			})
			return
		}
		c.Next()
	}
}
