package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

// AuthHandler expone registro y login.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
	tokens *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService, tokens *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   auth,
		tokens: tokens,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		badRequest(c)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		badRequest(c)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user domain.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(status, gin.H{
		"user":       user,
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int64(h.tokens.TTL().Seconds()),
	})
}
