package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/metrics"
)

// Metrics 记录请求数与耗时，路由取模板路径避免标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
