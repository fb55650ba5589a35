package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/service"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

// PublicLanding is where page routes send visitors who may not see them.
const PublicLanding = "/"

// RequireRole guards API routes. Anonymous callers get 401 and callers with
// another role get 403.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := service.Require(IdentityFrom(c), role); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePageRole guards browser facing routes by redirecting to the public
// landing page instead of answering with an error body.
func RequirePageRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := service.Require(IdentityFrom(c), role); err != nil {
			response.Redirect(c, PublicLanding)
			c.Abort()
			return
		}
		c.Next()
	}
}
