package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

// IdentityLoader fetches the current identity for a role and account ID.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, role models.Role, id int64) (models.Identity, error)
}

// SessionResolver turns the session cookie of a request into an Identity.
// By default the identity is the snapshot carried in the token and may lag
// behind later profile edits until the token expires. With reload enabled
// the account row is fetched on every request instead.
type SessionResolver struct {
	codec      *TokenCodec
	cookieName string
	loader     IdentityLoader
	reload     bool
	logger     *zap.Logger
}

// NewSessionResolver constructs a resolver. loader may be nil when reload is false.
func NewSessionResolver(codec *TokenCodec, cookieName string, loader IdentityLoader, reload bool, logger *zap.Logger) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cookieName == "" {
		cookieName = "access_token"
	}
	return &SessionResolver{codec: codec, cookieName: cookieName, loader: loader, reload: reload && loader != nil, logger: logger}
}

// CookieName returns the session cookie name.
func (r *SessionResolver) CookieName() string {
	return r.cookieName
}

// ResolveRequest reads the session cookie and resolves it. A missing cookie
// is the ordinary logged-out state and yields ErrUnauthenticated.
func (r *SessionResolver) ResolveRequest(req *http.Request) (models.Identity, error) {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil || cookie.Value == "" {
		return models.Identity{}, appErrors.ErrUnauthenticated
	}
	return r.Resolve(req.Context(), cookie.Value)
}

// Resolve decodes token into an Identity.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (models.Identity, error) {
	claims, err := r.codec.Decode(token)
	if err != nil {
		return models.Identity{}, appErrors.ErrUnauthenticated
	}
	if !r.reload {
		return claims.Identity(), nil
	}

	identity, err := r.loader.LoadIdentity(ctx, claims.Role, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
			return models.Identity{}, appErrors.ErrUnauthenticated
		}
		r.logger.Error("reload session identity", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return models.Identity{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session identity")
	}
	return identity, nil
}
