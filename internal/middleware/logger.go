package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request IDs
	"github.com/sirupsen/logrus" // Logging library
)

// RequestIDHeader carries the request ID in and out
const RequestIDHeader = "X-Request-ID"

// HTTPObserver records served requests. Implemented by metrics.Collector.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
}

// RequestLogger tags every request with an ID, logs it once served and reports it to obs.
// obs may be nil.
func RequestLogger(obs HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString() // Ignore missing or malformed client IDs
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched" // Keep label cardinality bounded
		}
		if obs != nil {
			obs.ObserveHTTP(c.Request.Method, route, status, latency)
		}

		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,              // Request ID
			"method":     c.Request.Method,       // HTTP method
			"path":       c.Request.URL.Path,     // Raw path
			"status":     status,                 // Response status
			"latency_ms": latency.Milliseconds(), // Latency
			"client_ip":  c.ClientIP(),           // Client IP
		})
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
	}
}
