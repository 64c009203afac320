package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orion-os/auth"
	"orion-os/internal/domain"
	"orion-os/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(v auth.Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/whoami", auth.AuthMiddleWare(v), func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": identity.Subject})
	})
	return router
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := setupRouter(auth.NewTokenVerifier("secret", ""))

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := setupRouter(auth.NewTokenVerifier("secret", ""))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := auth.NewTokenVerifier("secret", "")
	router := setupRouter(v)
	token, err := v.Issue(domain.Identity{Subject: "user_42"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_42")
}
