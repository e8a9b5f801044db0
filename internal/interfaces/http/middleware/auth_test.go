package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditnote/backend/internal/infrastructure/auth"
	"github.com/creditnote/backend/internal/infrastructure/config"
)

func newAuthRouter(t *testing.T, expiration time.Duration) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService(config.AuthConfig{
		JWTSecret:       "test-secret-test-secret-test-secret",
		TokenExpiration: expiration,
		Issuer:          "creditnote-backend",
	})

	router := gin.New()
	router.Use(Auth(tokens))
	router.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, GetOperator(c))
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "login")
	})
	return router, tokens
}

func TestAuth_MissingHeader(t *testing.T) {
	router, _ := newAuthRouter(t, time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}

func TestAuth_MalformedHeader(t *testing.T) {
	router, _ := newAuthRouter(t, time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
}

func TestAuth_ValidTokenSetsOperator(t *testing.T) {
	router, tokens := newAuthRouter(t, time.Hour)

	token, _, err := tokens.Generate("alex")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alex", w.Body.String())
}

func TestAuth_ExpiredToken(t *testing.T) {
	router, tokens := newAuthRouter(t, -time.Minute)

	token, _, err := tokens.Generate("alex")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestAuth_SkipsLoginPath(t *testing.T) {
	router, _ := newAuthRouter(t, time.Hour)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
