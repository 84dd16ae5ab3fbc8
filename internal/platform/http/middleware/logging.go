package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"planning_backend/internal/platform/logger"
)

// Logging records request start and completion with status and duration.
func Logging(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logg == nil {
			c.Next()
			return
		}
		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		logg.Debug(ctx, "request.start")

		c.Next()

		ctx = logg.WithFields(ctx, map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		logg.Info(ctx, "request.complete")
	}
}
