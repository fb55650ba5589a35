package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/service"
)

const (
	anonymousRole  = "anonymous"
	unmatchedRoute = "unmatched"
)

// Metrics observes every request under its route template and the role of
// the session that made it. It must run before Session so the identity is
// visible once the chain returns.
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
			// Raw paths of 404s would give every scanned URL its own series.
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, requestRole(c), c.Writer.Status(), time.Since(start))
	}
}

func requestRole(c *gin.Context) string {
	if identity := IdentityFrom(c); identity != nil && identity.Role != "" {
		return string(identity.Role)
	}
	return anonymousRole
}
