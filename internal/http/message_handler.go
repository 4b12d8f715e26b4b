package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/service"
)

// MessageHandler expone mensajes directos entre amigos.
type MessageHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

func NewMessageHandler(logger *zap.Logger, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{logger: logger, messages: messages}
}

// Conversation maneja GET /messages/:userID.
func (h *MessageHandler) Conversation(c *gin.Context) {
	messages, err := h.messages.Conversation(c.Request.Context(), requesterID(c), c.Param("userID"), queryLimit(c))
	if err != nil {
		respondError(c, h.logger, "get conversation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send maneja POST /messages/:userID.
func (h *MessageHandler) Send(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid message request", zap.Error(err))
		badRequest(c)
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), requesterID(c), c.Param("userID"), req.Content)
	if err != nil {
		respondError(c, h.logger, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
