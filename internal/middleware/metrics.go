package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classmarket/internal/pkg/metrics"
)

// Metrics counts requests by route template, so ids in paths do not
// blow up label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
