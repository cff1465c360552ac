package middleware

import (
	"fmt"
	"time"

	"recipe-ideas/internal/infrastructure/config"
	"recipe-ideas/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRateLimiter 依設定建立令牌桶，每個 window 補充 requests 個令牌
func NewRateLimiter(cfg *config.RateLimitConfig) *rate.Limiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.Requests)/cfg.Window.Seconds()), burst)
}

// RateLimit 限流中間件
func RateLimit(limiter *rate.Limiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status, common.ErrTooManyRequests.Response(""))
			return
		}

		c.Next()
	}
}
