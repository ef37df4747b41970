package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/pkg/middleware/requestid"
)

// Audit records successful mutations (who changed what) to the structured log.
func Audit(logger *zap.Logger, action, resource string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("resource", resource),
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", requestid.Value(c)),
		}
		if session := SessionFromContext(c); session != nil {
			fields = append(fields, zap.String("session_id", session.ID))
			if session.User.ID != nil {
				fields = append(fields, zap.Int64("user_id", *session.User.ID))
			}
		}
		if trainerID, ok := TrainerIDFromContext(c); ok {
			fields = append(fields, zap.Int64("trainer_id", trainerID))
		}
		if target := c.Param("id"); target != "" {
			fields = append(fields, zap.String("resource_id", target))
		} else if key := c.Param("key"); key != "" {
			fields = append(fields, zap.String("resource_id", key))
		}
		logger.Info("audit", fields...)
	}
}
