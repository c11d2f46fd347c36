package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"
)

// RequestLogger 为每个请求输出一条结构化访问日志。
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithRequest(models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMS:  time.Since(start).Milliseconds(),
		})
		if last := c.Errors.Last(); last != nil {
			entry = entry.WithError(last.Err)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
