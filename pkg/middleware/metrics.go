package middleware

import (
	"strconv"
	"time"

	"github.com/cmdshop/cmdshop/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RequestMetrics records request counts and latency by route template so
// ids do not explode label cardinality.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
