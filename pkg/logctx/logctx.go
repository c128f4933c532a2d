package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys shared with the HTTP middleware chain. They are plain strings
// because the same values flow through gin.Context, which only keys by string.
const (
	keyLogger  = "logger"
	keyTraceID = "traceID"
	keyUserID  = "user_id"
)

// FromGin resolves the logger for a handler: the request-scoped one set by
// the middleware when present, otherwise base enriched from context values.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if lg, ok := c.Get(keyLogger); ok {
		if l, ok := lg.(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx is the non-gin variant, for services handed a bare context.Context.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if l, ok := ctx.Value(keyLogger).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	var fields []interface{}
	if tid, ok := ctx.Value(keyTraceID).(string); ok && tid != "" {
		fields = append(fields, "trace_id", tid)
	}
	if uid, ok := ctx.Value(keyUserID).(string); ok && uid != "" {
		fields = append(fields, "user_id", uid)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
