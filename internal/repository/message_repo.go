package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"socialnet/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListConversation(ctx context.Context, userA, userB string, limit int) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, sender_id, recipient_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SenderID,
		message.RecipientID,
		message.Content,
		message.CreatedAt,
	)
	return err
}

// ListConversation devuelve los ultimos mensajes entre ambos usuarios, del mas antiguo al mas nuevo.
func (r *PgMessageRepository) ListConversation(ctx context.Context, userA, userB string, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, sender_id, recipient_id, content, created_at
		FROM (
			SELECT id, sender_id, recipient_id, content, created_at
			FROM messages
			WHERE (sender_id = $1 AND recipient_id = $2)
			   OR (sender_id = $2 AND recipient_id = $1)
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userA, userB, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err = rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.RecipientID,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
