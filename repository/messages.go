package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pb2jamz/Signal-Sorter/models"
)

// MessageStore persists the chat transcript.
type MessageStore struct {
	db *pgxpool.Pool
}

// NewMessageStore creates a message store over the given pool.
func NewMessageStore(db *pgxpool.Pool) *MessageStore {
	return &MessageStore{db: db}
}

// Append stores one chat message.
func (s *MessageStore) Append(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO chat_messages (id, user_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, msg.ID, msg.UserID, msg.Role, msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// ListRecent returns the user's most recent messages in chronological order.
func (s *MessageStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, role, content, created_at
		FROM (
			SELECT id, user_id, role, content, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
