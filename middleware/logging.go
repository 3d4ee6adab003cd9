package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phillip/sports-academy-go/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (kept from the caller when
// present) and writes one access log line once it completes.
// Requests under /static are not logged.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithService("http")
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") {
			return
		}
		status := c.Writer.Status()
		attrs := []any{
			"request_id", reqID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
		}
		switch {
		case status >= 500:
			log.Error("request", attrs...)
		case status >= 400:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}
