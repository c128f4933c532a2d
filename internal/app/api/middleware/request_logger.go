package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware derives a request-scoped logger from the base one,
// tagged with the trace ID set by TraceMiddleware. The logger is stored under
// "logger" in both gin.Context and the request context; the trace ID is
// echoed back on the X-Request-ID response header.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLogger := base
		if traceID := c.GetString("traceID"); traceID != "" {
			reqLogger = base.With("trace_id", traceID)
			c.Writer.Header().Set(traceHeader, traceID)
		}

		c.Set("logger", reqLogger)
		ctx := context.WithValue(c.Request.Context(), "logger", reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
