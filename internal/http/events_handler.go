package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/domain"
)

const defaultHeartbeat = 15 * time.Second

// FeedSubscriber entrega el feed en vivo a una conexion.
type FeedSubscriber interface {
	Subscribe(ctx context.Context) <-chan domain.Post
}

// EventsHandler transmite el feed por Server-Sent Events.
type EventsHandler struct {
	logger    *zap.Logger
	feed      FeedSubscriber
	heartbeat time.Duration
}

func NewEventsHandler(logger *zap.Logger, feed FeedSubscriber, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsHandler{
		logger:    logger,
		feed:      feed,
		heartbeat: heartbeat,
	}
}

// Stream maneja GET /events. Cada post se envia como un evento "post" con el
// post en JSON; la suscripcion termina cuando el cliente se desconecta.
func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	events := h.feed.Subscribe(ctx)
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case post, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent("post", post)
			c.Writer.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.logger.Debug("event stream closed", zap.Error(err))
				return
			}
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
