package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"socialnet/internal/domain"
)

type FriendshipRepository interface {
	Create(ctx context.Context, f domain.Friendship) error
	GetByID(ctx context.Context, id string) (domain.Friendship, error)
	GetBetween(ctx context.Context, userA, userB string) (domain.Friendship, error)
	Accept(ctx context.Context, id string, acceptedAt time.Time) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID, status string) ([]domain.Friendship, error)
}

type PgFriendshipRepository struct {
	pool *pgxpool.Pool
}

func NewPgFriendshipRepository(pool *pgxpool.Pool) *PgFriendshipRepository {
	return &PgFriendshipRepository{pool: pool}
}

const friendshipColumns = `id, requester_id, addressee_id, status, created_at, accepted_at`

func (r *PgFriendshipRepository) Create(ctx context.Context, f domain.Friendship) error {
	const query = `
		INSERT INTO friendships (id, requester_id, addressee_id, status, created_at, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		f.ID,
		f.RequesterID,
		f.AddresseeID,
		f.Status,
		f.CreatedAt,
		f.AcceptedAt,
	)
	return mapPgError(err)
}

func (r *PgFriendshipRepository) GetByID(ctx context.Context, id string) (domain.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE id = $1`
	return scanFriendship(r.pool.QueryRow(ctx, query, id))
}

// GetBetween busca la relacion entre dos usuarios sin importar la direccion.
func (r *PgFriendshipRepository) GetBetween(ctx context.Context, userA, userB string) (domain.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)
	`
	return scanFriendship(r.pool.QueryRow(ctx, query, userA, userB))
}

func (r *PgFriendshipRepository) Accept(ctx context.Context, id string, acceptedAt time.Time) error {
	const query = `
		UPDATE friendships
		SET status = $2, accepted_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, domain.FriendshipAccepted, acceptedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgFriendshipRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgFriendshipRepository) ListByUser(ctx context.Context, userID, status string) ([]domain.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (requester_id = $1 OR addressee_id = $1) AND status = $2
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanFriendship(row pgx.Row) (domain.Friendship, error) {
	var f domain.Friendship
	err := row.Scan(
		&f.ID,
		&f.RequesterID,
		&f.AddresseeID,
		&f.Status,
		&f.CreatedAt,
		&f.AcceptedAt,
	)
	if err != nil {
		return domain.Friendship{}, err
	}
	return f, nil
}
