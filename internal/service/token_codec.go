package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

// ErrInvalidToken is the single failure reported by TokenCodec.Decode.
var ErrInvalidToken = errors.New("invalid session token")

// TokenConfig is the immutable signing configuration of a TokenCodec.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// TokenCodec issues and verifies HS256 signed session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenCodec validates cfg and copies the secret.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &TokenCodec{secret: secret, ttl: cfg.TTL, issuer: cfg.Issuer, now: time.Now}, nil
}

// WithClock returns a copy of the codec reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *c
	clone.now = now
	return &clone
}

// TTL returns the fixed session lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for identity valid from now until now+TTL.
func (c *TokenCodec) Issue(identity models.Identity) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(c.ttl)
	claims := models.SessionClaims{
		UserID: identity.ID,
		Role:   identity.Role,
		Email:  identity.Email,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.ID, 10),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies signature, algorithm, issuer and expiry. Every failure,
// including malformed claims, is reported as ErrInvalidToken.
func (c *TokenCodec) Decode(raw string) (*models.SessionClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, ErrInvalidToken
	}
	if _, ok := models.ParseRole(string(claims.Role)); !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
