package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ensalamento-api/internal/service"
)

// unmatchedRoute labels requests that hit no registered route, so scanners
// cannot blow up label cardinality.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records request duration and count by route
// template. Download tokens and ids never reach the labels.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
