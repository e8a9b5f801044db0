package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/creditnote/backend/internal/infrastructure/auth"
	"github.com/creditnote/backend/internal/infrastructure/logger"
	"github.com/creditnote/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	// OperatorKey is the gin context key holding the authenticated operator.
	OperatorKey = "operator"

	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the token middleware.
type AuthConfig struct {
	Tokens *auth.TokenService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
}

// DefaultAuthConfig returns the default token middleware configuration.
func DefaultAuthConfig(tokens *auth.TokenService) AuthConfig {
	return AuthConfig{
		Tokens: tokens,
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
		},
	}
}

// Auth validates the bearer token and records the operator name in both
// the gin context and the request context, so handlers and the request
// logger can attribute work to the operator.
func Auth(tokens *auth.TokenService) gin.HandlerFunc {
	return AuthWithConfig(DefaultAuthConfig(tokens))
}

// AuthWithConfig creates the token middleware with custom configuration.
func AuthWithConfig(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(header, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Missing token")
			return
		}

		claims, err := cfg.Tokens.Validate(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Token validation failed")
			return
		}

		c.Set(OperatorKey, claims.Username)

		ctx, _ := logger.WithOperator(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetOperator returns the authenticated operator name, if any.
func GetOperator(c *gin.Context) string {
	return c.GetString(OperatorKey)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, requestID))
}
