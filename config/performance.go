package config

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"laundromat-backend/metrics"
	"laundromat-backend/utils"
)

const slowRequestThreshold = 200 * time.Millisecond

// PerformanceLogger logs every request with its latency, flags slow ones and
// feeds the request metrics.
func PerformanceLogger(log *logrus.Entry, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		m.ObserveRequest(c.Request.Method, c.FullPath(), status, latency)

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": latency.String(),
		})
		if sid := c.GetString(utils.ContextSessionID); sid != "" {
			entry = entry.WithField("session", sid)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		if latency > slowRequestThreshold {
			entry.Warn("slow request")
			return
		}
		entry.Info("request served")
	}
}
