package middleware

import (
	"context"
	"regexp"

	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CorrelationIDHeader carries the request's correlation ID in both directions
const CorrelationIDHeader = "X-Correlation-ID"

const ginCorrelationKey = "correlationID"

// Caller-supplied IDs are echoed into logs and headers, so only short token-like values are kept
var validCorrelationID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

type correlationKey struct{}

type correlationScope struct {
	id  string
	log *zap.Logger
}

// CorrelationIDMiddleware reuses the caller's correlation ID when it is well formed and issues
// a uuid otherwise. The ID is exposed on the gin context, the request context and the response.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if !validCorrelationID.MatchString(correlationID) {
			correlationID = uuid.NewString()
		}

		c.Set(ginCorrelationKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(WithCorrelationID(c.Request.Context(), correlationID))
		c.Next()
	}
}

// GetCorrelationID returns the correlation ID set by CorrelationIDMiddleware
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ginCorrelationKey)
}

// WithCorrelationID binds correlationID, and a logger tagged with it, to ctx
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationKey{}, &correlationScope{
		id:  correlationID,
		log: logger.Log.With(zap.String("correlation_id", correlationID)),
	})
}

func CorrelationIDFromContext(ctx context.Context) string {
	if scope, ok := ctx.Value(correlationKey{}).(*correlationScope); ok {
		return scope.id
	}
	return ""
}

// LogWithCorrelationID returns the logger bound by WithCorrelationID, or the global logger
func LogWithCorrelationID(ctx context.Context) *zap.Logger {
	if scope, ok := ctx.Value(correlationKey{}).(*correlationScope); ok {
		return scope.log
	}
	return logger.Log
}
