package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(headerKey, header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestMiddlewareGeneratesID(t *testing.T) {
	rec, seen := serve(t, "")
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(headerKey))
}

func TestMiddlewareEchoesWellFormedID(t *testing.T) {
	_, seen := serve(t, "abc-123")
	assert.Equal(t, "abc-123", seen)
}

func TestMiddlewareReplacesMalformedID(t *testing.T) {
	_, seen := serve(t, "bad id\nwith newline")
	assert.NotEqual(t, "bad id\nwith newline", seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
