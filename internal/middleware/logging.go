package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIObserver receives one observation per handled request
type APIObserver interface {
	ObserveAPI(method, route string, status int, duration time.Duration)
}

// RequestLoggingMiddleware logs every request with its correlation ID and reports it to observer.
// observer may be nil.
func RequestLoggingMiddleware(observer APIObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		if observer != nil {
			observer.ObserveAPI(c.Request.Method, c.FullPath(), status, duration)
		}

		log := LogWithCorrelationID(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error("Request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= 400:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
