package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riahunter/backend/pkg/logctx"
)

// AccessLogMiddleware writes one structured line per completed request,
// using the request-scoped logger attached by RequestLoggerMiddleware.
// Server errors surface at error level so they stand out in prod logs.
func AccessLogMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// unmatched routes have no FullPath; log the raw one instead
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		log := logctx.FromGin(c, base)
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes_out", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields = append(fields, "user_id", uid)
		}
		if c.Writer.Status() >= 500 {
			log.Errorw("http_access", fields...)
			return
		}
		log.Infow("http_access", fields...)
	}
}
