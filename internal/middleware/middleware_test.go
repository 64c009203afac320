package middleware

import (
	"bytes"
	"context"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"orion-os/auth"
	"orion-os/internal/domain"
	"orion-os/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTracingMiddleware(), ErrorHandler())
	return router
}

func TestErrorHandler_APIError(t *testing.T) {
	router := setupRouter()
	router.GET("/missing", func(c *gin.Context) {
		c.Error(errors.NotFound("Note not found", nil))
	})

	req := httptest.NewRequest("GET", "/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "Note not found", body["message"])
}

func TestErrorHandler_RawErrorIsInternal(t *testing.T) {
	router := setupRouter()
	router.GET("/boom", func(c *gin.Context) {
		c.Error(stdErrors.New("connection refused"))
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// internals never leak to the caller
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRequestTracing_SetsHeader(t *testing.T) {
	router := setupRouter()
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestTracing_KeepsIncomingID(t *testing.T) {
	router := setupRouter()
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRequestSizeLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/limited", RequestSizeLimiter(4), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/unlimited", RequestSizeLimiter(0), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("POST", "/limited", bytes.NewBufferString("too large"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req = httptest.NewRequest("POST", "/unlimited", bytes.NewBufferString("too large"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest("GET", "/ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}

type stubResolver struct {
	calls int
}

func (r *stubResolver) Resolve(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	r.calls++
	return &domain.Profile{ID: "p-" + identity.Subject}, nil
}

func TestProfileMiddleware_ReadsIdentityFromAuth(t *testing.T) {
	resolver := &stubResolver{}
	router := setupRouter()
	profiles := &Profile{Resolver: resolver}
	router.GET("/me", func(c *gin.Context) {
		c.Set(auth.IdentityKey, domain.Identity{Subject: "u1"})
	}, profiles.ProfileMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ProfileIDKey))
	})

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p-u1", w.Body.String())
	assert.Equal(t, 1, resolver.calls)
}

func TestProfileMiddleware_NoIdentity(t *testing.T) {
	resolver := &stubResolver{}
	router := setupRouter()
	profiles := &Profile{Resolver: resolver}
	router.GET("/me", profiles.ProfileMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, resolver.calls)
}
