package middleware

import (
	"context" // Request deadlines
	"time"    // Durations

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequestTimeout bounds the request context so store calls give up after d.
// A zero d leaves the context untouched.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
