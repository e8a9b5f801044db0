package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creditnote/backend/internal/infrastructure/auth"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	BaseHandler
	verifier *auth.CredentialVerifier
	tokens   *auth.TokenService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(verifier *auth.CredentialVerifier, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		tokens:   tokens,
	}
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

// Login authenticates the operator and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.verifier.Verify(req.Username, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(req.Username)
	if err != nil {
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    req.Username,
	})
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	{
		group.POST("/login", h.Login)
	}
}
