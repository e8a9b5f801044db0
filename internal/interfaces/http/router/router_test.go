package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/infrastructure/auth"
	"github.com/creditnote/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(pingRegistrar{}).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_APIVersionOption(t *testing.T) {
	engine := gin.New()
	NewRouter(engine, WithAPIVersion("v2")).Register(pingRegistrar{}).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewEngine_HealthIsPublic(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{
		JWTSecret:       "test-secret-test-secret-test-secret",
		TokenExpiration: time.Hour,
		Issuer:          "creditnote-backend",
	}
	cfg.HTTP.MaxBodySize = 1 << 20

	engine, err := NewEngine(cfg, zap.NewNop(), auth.NewTokenService(cfg.Auth))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewEngine_ProtectedRoutesRequireToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{
		JWTSecret:       "test-secret-test-secret-test-secret",
		TokenExpiration: time.Hour,
		Issuer:          "creditnote-backend",
	}
	cfg.HTTP.MaxBodySize = 1 << 20

	engine, err := NewEngine(cfg, zap.NewNop(), auth.NewTokenService(cfg.Auth))
	require.NoError(t, err)
	NewRouter(engine).Register(pingRegistrar{}).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
