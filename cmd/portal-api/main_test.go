package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/service"
	"github.com/noah-isme/collab-portal-api/pkg/config"
)

func TestTokenConfigFromSession(t *testing.T) {
	session := config.SessionConfig{Secret: "s3cret", Expiration: 2 * time.Hour, Issuer: "portal"}

	tc := tokenConfig(session)
	assert.Equal(t, []byte("s3cret"), tc.Secret)
	assert.Equal(t, 2*time.Hour, tc.TTL)
	assert.Equal(t, "portal", tc.Issuer)

	codec, err := service.NewTokenCodec(tc)
	require.NoError(t, err)

	token, _, err := codec.Issue(models.Identity{ID: 7, Role: models.RoleStudent, Email: "a@uni.edu", Name: "Ada"})
	require.NoError(t, err)
	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestNewEngineIgnoresForwardedForWithoutProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, err := newEngine(&config.Config{})
	require.NoError(t, err)
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "10.1.2.3", w.Body.String())
}

func TestNewEngineHonoursConfiguredProxy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, err := newEngine(&config.Config{TrustedProxies: []string{"10.0.0.0/8"}})
	require.NoError(t, err)
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "203.0.113.9", w.Body.String())
}

func TestNewEngineRejectsBadProxy(t *testing.T) {
	_, err := newEngine(&config.Config{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}
