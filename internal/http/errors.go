package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/service"
)

// respondError traduce errores de servicio a status HTTP. Los errores no
// reconocidos se loguean y se devuelven como 500 sin detalle.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotFriends):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrImageNotFound),
		errors.Is(err, service.ErrFriendshipNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrFriendshipExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, service.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "too many requests"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
