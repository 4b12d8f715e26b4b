package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

// ImageHandler recibe uploads y sirve imagenes guardadas.
type ImageHandler struct {
	logger *zap.Logger
	images *service.ImageService
}

func NewImageHandler(logger *zap.Logger, images *service.ImageService) *ImageHandler {
	return &ImageHandler{logger: logger, images: images}
}

// Upload maneja POST /images con un campo multipart "file".
func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("invalid image upload", zap.Error(err))
		badRequest(c)
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, "open upload", err)
		return
	}
	defer file.Close()

	img, err := h.images.Upload(c.Request.Context(), requesterID(c), file)
	if err != nil {
		respondError(c, h.logger, "upload image", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": img})
}

// Get maneja GET /images/:id?variant=original|thumbnail.
func (h *ImageHandler) Get(c *gin.Context) {
	variant := c.DefaultQuery("variant", domain.ImageVariantOriginal)
	if variant != domain.ImageVariantOriginal && variant != domain.ImageVariantThumbnail {
		badRequest(c)
		return
	}

	rc, contentType, err := h.images.Open(c.Request.Context(), c.Param("id"), variant)
	if err != nil {
		respondError(c, h.logger, "open image", err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.logger.Warn("image stream interrupted", zap.Error(err))
	}
}
