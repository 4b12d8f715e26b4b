package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"socialnet/internal/domain"
)

type ImageRepository interface {
	Create(ctx context.Context, image domain.Image) error
	GetByID(ctx context.Context, id string) (domain.Image, error)
}

type PgImageRepository struct {
	pool *pgxpool.Pool
}

func NewPgImageRepository(pool *pgxpool.Pool) *PgImageRepository {
	return &PgImageRepository{pool: pool}
}

func (r *PgImageRepository) Create(ctx context.Context, image domain.Image) error {
	const query = `
		INSERT INTO images (id, owner_id, content_type, width, height, original_key, thumbnail_key, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		image.ID,
		image.OwnerID,
		image.ContentType,
		image.Width,
		image.Height,
		image.OriginalKey,
		image.ThumbnailKey,
		image.SizeBytes,
		image.CreatedAt,
	)
	return err
}

func (r *PgImageRepository) GetByID(ctx context.Context, id string) (domain.Image, error) {
	const query = `
		SELECT id, owner_id, content_type, width, height, original_key, thumbnail_key, size_bytes, created_at
		FROM images
		WHERE id = $1
	`
	var img domain.Image
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&img.ID,
		&img.OwnerID,
		&img.ContentType,
		&img.Width,
		&img.Height,
		&img.OriginalKey,
		&img.ThumbnailKey,
		&img.SizeBytes,
		&img.CreatedAt,
	)
	if err != nil {
		return domain.Image{}, err
	}
	return img, nil
}
