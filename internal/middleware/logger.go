package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs each HTTP request with method, path, status, and latency.
// Handler errors collected on the gin context are appended to the line.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")
		if len(c.Errors) > 0 {
			log.Printf("[%s] %s %s %d %s errors=%q",
				requestID, c.Request.Method, path, c.Writer.Status(), latency, c.Errors.String())
			return
		}
		log.Printf("[%s] %s %s %d %s",
			requestID, c.Request.Method, path, c.Writer.Status(), latency)
	}
}

// Recovery recovers from panics, logs the request id alongside the panic
// value, and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] panic recovered: %v", requestID, recovered)
		c.AbortWithStatusJSON(500, gin.H{"success": false, "error": gin.H{"code": "INTERNAL_ERROR", "message": "internal server error"}})
	})
}
