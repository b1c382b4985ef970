// internal/middleware/metrics.go

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
)

// Metrics records request latency by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), start)
	}
}
