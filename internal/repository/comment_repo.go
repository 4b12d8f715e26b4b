package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialnet/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	GetByID(ctx context.Context, id string) (domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type PgCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, u.username, c.content, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func (r *PgCommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	const query = `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	)
	return err
}

func (r *PgCommentRepository) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

func (r *PgCommentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PgCommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.AuthorID,
		&c.AuthorUsername,
		&c.Content,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}
