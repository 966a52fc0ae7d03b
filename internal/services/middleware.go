package services

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"servicehub/internal/logger"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// AccessLog logs one line per request through the structured logger.
// An incoming X-Request-ID is reused; otherwise one is generated.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		c.Next()

		log.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
