// Package middleware provides gin middleware shared by every route.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planning_backend/internal/platform/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestID reuses an inbound X-Request-Id or generates one, echoes it and
// attaches it to the request's logging context.
func RequestID(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		if logg != nil {
			c.Request = c.Request.WithContext(logg.WithRequestID(c.Request.Context(), reqID))
		}
		c.Next()
	}
}
