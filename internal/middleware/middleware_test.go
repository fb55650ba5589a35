package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/service"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

func TestClientInfoAndSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured context.Context
	r := gin.New()
	r.Use(SecurityHeaders(), ClientInfo())
	r.GET("/ping", func(c *gin.Context) {
		captured = c.Request.Context()
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("User-Agent", "portal-test")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, service.ClientInfo{IP: "192.0.2.10", UserAgent: "portal-test"}, service.ClientInfoFrom(captured))
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/ping", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}

type resolverFunc func(*http.Request) (models.Identity, error)

func (f resolverFunc) ResolveRequest(r *http.Request) (models.Identity, error) { return f(r) }

func TestMetricsRecordsRouteAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	resolver := resolverFunc(func(r *http.Request) (models.Identity, error) {
		if r.Header.Get("X-Role") == "" {
			return models.Identity{}, appErrors.ErrUnauthenticated
		}
		return models.Identity{ID: 3, Role: models.Role(r.Header.Get("X-Role"))}, nil
	})

	r := gin.New()
	r.Use(Metrics(metrics), Session(resolver))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	send := func(path, role string) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if role != "" {
			req.Header.Set("X-Role", role)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	send("/items/9", "")
	send("/items/9", "professor")
	send("/items/10", "professor")
	send("/nowhere/1", "")
	send("/nowhere/2", "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/items/:id",role="anonymous",status="200"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/items/:id",role="professor",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",role="anonymous",status="404"} 2`)
	assert.NotContains(t, body, "/nowhere")
}
