package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
	posts  *service.PostService
}

func NewUserHandler(logger *zap.Logger, users *service.UserService, posts *service.PostService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
		posts:  posts,
	}
}

// Me maneja GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), requesterID(c))
	if err != nil {
		respondError(c, h.logger, "get current user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Get maneja GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Search maneja GET /users?q=.
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.users.Search(c.Request.Context(), c.Query("q"), queryLimit(c))
	if err != nil {
		respondError(c, h.logger, "search users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateMe maneja PATCH /users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		Bio            *string `json:"bio"`
		ProfileImageID *string `json:"profile_image_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		badRequest(c)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), requesterID(c), service.UpdateProfileInput{
		Bio:            req.Bio,
		ProfileImageID: req.ProfileImageID,
	})
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteMe maneja DELETE /users/me.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), requesterID(c)); err != nil {
		respondError(c, h.logger, "delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Posts maneja GET /users/:id/posts.
func (h *UserHandler) Posts(c *gin.Context) {
	posts, err := h.posts.ListByAuthor(c.Request.Context(), c.Param("id"), queryLimit(c))
	if err != nil {
		respondError(c, h.logger, "list user posts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func requesterID(c *gin.Context) string {
	id, _ := CurrentIdentity(c)
	return id.UserID
}

// queryLimit lee ?limit=; valores invalidos quedan en 0 y el servicio aplica el default.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
