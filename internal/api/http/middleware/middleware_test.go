package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})
	return r
}

func get(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newRouter(RequestIDMiddleware())

	t.Run("echoes incoming id", func(t *testing.T) {
		rr := get(r, map[string]string{RequestIDHeader: "abc-123"})
		assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", rr.Body.String())
	})

	t.Run("generates id when missing", func(t *testing.T) {
		rr := get(r, nil)
		rid := rr.Header().Get(RequestIDHeader)
		assert.Len(t, rid, 36)
		assert.Equal(t, rid, rr.Body.String())
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Run("disabled when no key configured", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(newRouter(APIKeyMiddleware("")), nil).Code)
	})

	r := newRouter(APIKeyMiddleware("s3cret"))
	assert.Equal(t, http.StatusUnauthorized, get(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"X-API-Key": "wrong"}).Code)
	assert.Equal(t, http.StatusOK, get(r, map[string]string{"X-API-Key": "s3cret"}).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(rate.NewLimiter(rate.Limit(0.001), 2)))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)

	unlimited := newRouter(RateLimitMiddleware(nil))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(unlimited, nil).Code)
	}
}
