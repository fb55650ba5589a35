package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/service"
)

// ClientInfo copies the caller address and user agent into the request
// context so services can stamp audit entries.
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithClientInfo(c.Request.Context(), service.ClientInfo{
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
