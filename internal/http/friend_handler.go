package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/service"
)

// FriendHandler expone solicitudes de amistad y la lista de amigos.
type FriendHandler struct {
	logger  *zap.Logger
	friends *service.FriendshipService
}

func NewFriendHandler(logger *zap.Logger, friends *service.FriendshipService) *FriendHandler {
	return &FriendHandler{logger: logger, friends: friends}
}

// List maneja GET /friends.
func (h *FriendHandler) List(c *gin.Context) {
	friends, err := h.friends.ListFriends(c.Request.Context(), requesterID(c))
	if err != nil {
		respondError(c, h.logger, "list friends", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// Pending maneja GET /friends/requests.
func (h *FriendHandler) Pending(c *gin.Context) {
	requests, err := h.friends.ListPending(c.Request.Context(), requesterID(c))
	if err != nil {
		respondError(c, h.logger, "list friend requests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Request maneja POST /friends/requests.
func (h *FriendHandler) Request(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid friend request", zap.Error(err))
		badRequest(c)
		return
	}

	friendship, err := h.friends.SendRequest(c.Request.Context(), requesterID(c), req.UserID)
	if err != nil {
		respondError(c, h.logger, "send friend request", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"friendship": friendship})
}

// Accept maneja POST /friends/requests/:id/accept.
func (h *FriendHandler) Accept(c *gin.Context) {
	friendship, err := h.friends.Accept(c.Request.Context(), requesterID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "accept friend request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friendship": friendship})
}

// Remove maneja DELETE /friends/:id, donde id es el otro usuario.
func (h *FriendHandler) Remove(c *gin.Context) {
	if err := h.friends.Remove(c.Request.Context(), requesterID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "remove friend", err)
		return
	}
	c.Status(http.StatusNoContent)
}
