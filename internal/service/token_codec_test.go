package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

var testIdentity = models.Identity{ID: 7, Role: models.RoleStudent, Email: "ada@uni.edu", Name: "Ada"}

func newTestCodec(t *testing.T, now time.Time) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "collab-portal"})
	require.NoError(t, err)
	return codec.WithClock(func() time.Time { return now })
}

func TestTokenCodecRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now)

	token, expiresAt, err := codec.Issue(testIdentity)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, claims.Identity())
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "collab-portal", claims.Issuer)
}

func TestTokenCodecRejectsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newTestCodec(t, now).Issue(testIdentity)
	require.NoError(t, err)

	_, err = newTestCodec(t, now.Add(59*time.Minute)).Decode(token)
	assert.NoError(t, err)

	_, err = newTestCodec(t, now.Add(61*time.Minute)).Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodecRejectsTampering(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, now)
	token, _, err := codec.Issue(testIdentity)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	cases := map[string]string{
		"empty":       "",
		"garbage":     "not.a.token",
		"signature":   tampered,
		"truncated":   parts[0] + "." + parts[1],
		"swapped alg": signWith(t, jwt.SigningMethodHS512, []byte("test-secret"), claimsFor(testIdentity, now)),
		"other key":   signWith(t, jwt.SigningMethodHS256, []byte("other-secret"), claimsFor(testIdentity, now)),
		"none alg":    signWith(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(testIdentity, now)),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenCodecRejectsMalformedClaims(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, now)
	secret := []byte("test-secret")

	wrongIssuer := claimsFor(testIdentity, now)
	wrongIssuer.Issuer = "someone-else"

	badRole := claimsFor(testIdentity, now)
	badRole.Role = "admin"

	mismatchedSubject := claimsFor(testIdentity, now)
	mismatchedSubject.Subject = "8"

	noExpiry := claimsFor(testIdentity, now)
	noExpiry.ExpiresAt = nil

	for name, claims := range map[string]models.SessionClaims{
		"issuer":  wrongIssuer,
		"role":    badRole,
		"subject": mismatchedSubject,
		"expiry":  noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode(signWith(t, jwt.SigningMethodHS256, secret, claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenCodecValidatesConfig(t *testing.T) {
	_, err := NewTokenCodec(TokenConfig{TTL: time.Hour})
	assert.Error(t, err)

	_, err = NewTokenCodec(TokenConfig{Secret: []byte("x")})
	assert.Error(t, err)

	secret := []byte("mutable")
	codec, err := NewTokenCodec(TokenConfig{Secret: secret, TTL: time.Minute})
	require.NoError(t, err)
	token, _, err := codec.Issue(testIdentity)
	require.NoError(t, err)
	secret[0] = 'X'
	_, err = codec.Decode(token)
	assert.NoError(t, err, "codec keeps its own copy of the secret")
}

func claimsFor(identity models.Identity, now time.Time) models.SessionClaims {
	return models.SessionClaims{
		UserID: identity.ID,
		Role:   identity.Role,
		Email:  identity.Email,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			Issuer:    "collab-portal",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func signWith(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.SessionClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}
