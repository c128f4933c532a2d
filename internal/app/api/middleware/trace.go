package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/riahunter/backend/pkg/tool"
)

const traceHeader = "X-Request-ID"

// TraceMiddleware assigns every request a trace ID: the client-supplied
// X-Request-ID when present, otherwise a fresh UUIDv7. The ID is stored
// under "traceID" in both gin.Context and the request's context.Context
// so downstream loggers and handlers can pick it up.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set("traceID", traceID)
		ctx := context.WithValue(c.Request.Context(), "traceID", traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
