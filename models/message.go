package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles in the chat transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the triage conversation. The transcript is
// append-only; assistant turns are recorded even when the completion call
// fails (a fallback apology) so the thread is never silently broken.
type ChatMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewChatMessage creates a message with a fresh ID and timestamp.
func NewChatMessage(userID uuid.UUID, role, content string) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
