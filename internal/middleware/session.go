package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/logger"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing the resolved identity.
const ContextIdentityKey = "currentIdentity"

type sessionResolver interface {
	ResolveRequest(r *http.Request) (models.Identity, error)
}

// Session resolves the session cookie into an Identity when one is present.
// Anonymous requests pass through; route guards decide what they may reach.
func Session(resolver sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.ResolveRequest(c.Request)
		if err != nil {
			if errors.Is(err, appErrors.ErrUnauthenticated) {
				c.Next()
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, &identity)
		c.Set(logger.ActorKey, identity.Ref())
		c.Next()
	}
}

// IdentityFrom returns the identity attached by Session, or nil.
func IdentityFrom(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
