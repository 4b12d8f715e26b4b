package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialnet/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post domain.Post) error
	GetByID(ctx context.Context, id string) (domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
}

type PgPostRepository struct {
	pool *pgxpool.Pool
}

func NewPgPostRepository(pool *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{pool: pool}
}

const postSelect = `
	SELECT p.id, p.author_id, u.username, p.content, p.image_id,
	       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
	       p.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

func (r *PgPostRepository) Create(ctx context.Context, post domain.Post) error {
	const query = `
		INSERT INTO posts (id, author_id, content, image_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.AuthorID,
		post.Content,
		post.ImageID,
		post.CreatedAt,
	)
	return err
}

func (r *PgPostRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
}

// ListAll devuelve todos los posts en orden de creacion, para sembrar el feed.
func (r *PgPostRepository) ListAll(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, postSelect+` ORDER BY p.created_at ASC, p.id ASC`)
}

func (r *PgPostRepository) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	return r.list(ctx, postSelect+` ORDER BY p.created_at DESC LIMIT $1`, limit)
}

func (r *PgPostRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error) {
	return r.list(ctx, postSelect+` WHERE p.author_id = $1 ORDER BY p.created_at DESC LIMIT $2`, authorID, limit)
}

func (r *PgPostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgPostRepository) AddLike(ctx context.Context, postID, userID string) error {
	const query = `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, postID, userID)
	return err
}

func (r *PgPostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

func (r *PgPostRepository) list(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func scanPost(row pgx.Row) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&p.AuthorUsername,
		&p.Content,
		&p.ImageID,
		&p.LikeCount,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.Post{}, err
	}
	return p, nil
}
