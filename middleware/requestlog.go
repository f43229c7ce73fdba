package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func RequestLoggingMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if userID := c.GetString("userId"); userID != "" {
			entry = entry.WithField("userId", userID)
		}
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request")
			return
		}
		entry.Info("request")
	}
}
