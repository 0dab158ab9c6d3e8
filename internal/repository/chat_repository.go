package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orta-study/crm-backend/internal/domain"
)

// ChatRepository stores assistant exchanges.
type ChatRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository builds repository.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepository{pool: pool}
}

func (r *chatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO ai_chats (user_id, message, response)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, msg.UserID, msg.Message, msg.Response).Scan(&msg.ID, &msg.CreatedAt)
}

// ListRecent returns the newest messages first.
func (r *chatRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, user_id, message, response, created_at
        FROM ai_chats WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Message, &msg.Response, &msg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *chatRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ai_chats WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
