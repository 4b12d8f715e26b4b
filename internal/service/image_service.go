package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/imaging"
	"socialnet/internal/repository"
	"socialnet/internal/storage"
)

// ImageService recibe imagenes, genera la miniatura y las guarda.
type ImageService struct {
	logger        *zap.Logger
	images        repository.ImageRepository
	store         storage.ObjectStore
	maxBytes      int64
	maxPixels     int
	thumbnailEdge int
}

func NewImageService(logger *zap.Logger, images repository.ImageRepository, store storage.ObjectStore, maxBytes int64, maxPixels, thumbnailEdge int) *ImageService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	if maxPixels <= 0 {
		maxPixels = imaging.DefaultMaxPixels
	}
	if thumbnailEdge <= 0 {
		thumbnailEdge = 256
	}
	return &ImageService{
		logger:        logger,
		images:        images,
		store:         store,
		maxBytes:      maxBytes,
		maxPixels:     maxPixels,
		thumbnailEdge: thumbnailEdge,
	}
}

func (s *ImageService) Upload(ctx context.Context, ownerID string, r io.Reader) (domain.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return domain.Image{}, err
	}
	if int64(len(data)) > s.maxBytes {
		return domain.Image{}, ErrImageTooLarge
	}
	if len(data) == 0 {
		return domain.Image{}, ErrInvalidInput
	}

	img, format, err := imaging.Decode(data, s.maxPixels)
	if err != nil {
		if errors.Is(err, imaging.ErrTooManyPixels) {
			return domain.Image{}, ErrImageTooLarge
		}
		return domain.Image{}, ErrUnsupportedImage
	}
	thumbData, thumbType, err := imaging.Encode(imaging.Thumbnail(img, s.thumbnailEdge), format)
	if err != nil {
		return domain.Image{}, fmt.Errorf("encode thumbnail: %w", err)
	}

	id := uuid.NewString()
	record := domain.Image{
		ID:           id,
		OwnerID:      ownerID,
		ContentType:  imaging.ContentType(format),
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		OriginalKey:  fmt.Sprintf("images/%s/%s/original", ownerID, id),
		ThumbnailKey: fmt.Sprintf("images/%s/%s/thumbnail", ownerID, id),
		SizeBytes:    int64(len(data)),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Put(ctx, record.OriginalKey, record.ContentType, data); err != nil {
		return domain.Image{}, fmt.Errorf("store original: %w", err)
	}
	if err := s.store.Put(ctx, record.ThumbnailKey, thumbType, thumbData); err != nil {
		s.cleanup(ctx, record.OriginalKey)
		return domain.Image{}, fmt.Errorf("store thumbnail: %w", err)
	}
	if err := s.images.Create(ctx, record); err != nil {
		s.cleanup(ctx, record.OriginalKey, record.ThumbnailKey)
		return domain.Image{}, err
	}
	return record, nil
}

func (s *ImageService) Get(ctx context.Context, imageID string) (domain.Image, error) {
	if !validID(imageID) {
		return domain.Image{}, ErrImageNotFound
	}
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Image{}, ErrImageNotFound
		}
		return domain.Image{}, err
	}
	return img, nil
}

// Open devuelve el contenido de la variante y su content type.
func (s *ImageService) Open(ctx context.Context, imageID, variant string) (io.ReadCloser, string, error) {
	img, err := s.Get(ctx, imageID)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.store.Get(ctx, img.StorageKey(variant))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrImageNotFound
		}
		return nil, "", err
	}
	return rc, variantContentType(img, variant), nil
}

func variantContentType(img domain.Image, variant string) string {
	if variant != domain.ImageVariantThumbnail {
		return img.ContentType
	}
	if img.ContentType == "image/jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}

func (s *ImageService) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil && s.logger != nil {
			s.logger.Warn("image cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}
}
