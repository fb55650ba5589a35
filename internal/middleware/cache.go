package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const responseMetaKey = "response_meta"

// WithResponseMeta starts a per request metadata map that handlers fill in
// and hand to response.JSON.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Set(responseMetaKey+".start", time.Now())
		c.Next()
	}
}

// SetCacheHit records whether the payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ResponseMeta(c)["cache_hit"] = hit
}

// ResponseMeta returns the request metadata map with the elapsed processing
// time filled in. It never returns nil.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	value, _ := c.Get(responseMetaKey)
	meta, ok := value.(map[string]interface{})
	if !ok {
		meta = map[string]interface{}{}
		c.Set(responseMetaKey, meta)
	}
	if start, ok := c.Get(responseMetaKey + ".start"); ok {
		meta["processing_time_ms"] = time.Since(start.(time.Time)).Milliseconds()
	}
	return meta
}
