package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/middleware"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

// currentIdentity returns the authenticated caller or writes a 401.
func currentIdentity(c *gin.Context) (models.Identity, bool) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return models.Identity{}, false
	}
	return *identity, true
}

// pathID parses a positive integer path parameter or writes a 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Validation("invalid "+name, map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Validation("invalid "+name, map[string]string{name: "must be a positive integer"}))
		return nil, false
	}
	return &id, true
}

// bindPayload decodes JSON or form bodies depending on Content-Type.
func bindPayload(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBind(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
