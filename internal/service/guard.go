package service

import (
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

// Require passes identity through when it carries role. A nil identity is
// unauthenticated; any other role is forbidden. It performs no I/O.
func Require(identity *models.Identity, role models.Role) (models.Identity, error) {
	if identity == nil {
		return models.Identity{}, appErrors.ErrUnauthenticated
	}
	if identity.Role != role {
		return models.Identity{}, appErrors.ErrForbidden
	}
	return *identity, nil
}
