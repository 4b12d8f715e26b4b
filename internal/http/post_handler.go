package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/service"
)

// PostHandler expone posts, likes y comentarios.
type PostHandler struct {
	logger   *zap.Logger
	posts    *service.PostService
	comments *service.CommentService
	pageSize int
}

func NewPostHandler(logger *zap.Logger, posts *service.PostService, comments *service.CommentService, pageSize int) *PostHandler {
	return &PostHandler{
		logger:   logger,
		posts:    posts,
		comments: comments,
		pageSize: pageSize,
	}
}

// Create maneja POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
		ImageID string `json:"image_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create post request", zap.Error(err))
		badRequest(c)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), requesterID(c), service.CreatePostInput{
		Content: req.Content,
		ImageID: req.ImageID,
	})
	if err != nil {
		respondError(c, h.logger, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// List maneja GET /posts.
func (h *PostHandler) List(c *gin.Context) {
	limit := queryLimit(c)
	if limit == 0 {
		limit = h.pageSize
	}
	posts, err := h.posts.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, "list posts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get maneja GET /posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete maneja DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), requesterID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like maneja POST /posts/:id/like.
func (h *PostHandler) Like(c *gin.Context) {
	post, err := h.posts.Like(c.Request.Context(), requesterID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "like post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Unlike maneja DELETE /posts/:id/like.
func (h *PostHandler) Unlike(c *gin.Context) {
	post, err := h.posts.Unlike(c.Request.Context(), requesterID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "unlike post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListComments maneja GET /posts/:id/comments.
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.comments.ListForPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "list comments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment maneja POST /posts/:id/comments.
func (h *PostHandler) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid comment request", zap.Error(err))
		badRequest(c)
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), c.Param("id"), requesterID(c), req.Content)
	if err != nil {
		respondError(c, h.logger, "add comment", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment maneja DELETE /comments/:id.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), requesterID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}
