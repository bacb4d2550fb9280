package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/time/rate"
)

// RateLimit 按客户端 IP 的令牌桶限流
// 限流器存在 go-cache 里，10 分钟不活跃自动清理
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 1
	}
	limiters := cache.New(10*time.Minute, 5*time.Minute)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if v, ok := limiters.Get(ip); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			if err := limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
				// 并发下已被其他请求写入
				if v, ok := limiters.Get(ip); ok {
					limiter = v.(*rate.Limiter)
				}
			}
		}
		// 续期
		limiters.Set(ip, limiter, cache.DefaultExpiration)

		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			utils.Error(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
