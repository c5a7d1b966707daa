package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a tracked task owned by a single user. For a given user no two
// non-completed items may share a normalized-identical name; the triage
// reconciler enforces this on write.
type Item struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	Name           string         `json:"name" db:"name"`
	Classification Classification `json:"classification" db:"classification"`
	What           string         `json:"what,omitempty" db:"what"`
	Why            string         `json:"why,omitempty" db:"why"`
	NextAction     string         `json:"next_action,omitempty" db:"next_action"`
	Completed      bool           `json:"completed" db:"completed"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// NewItem creates an item with a fresh ID and timestamps.
func NewItem(userID uuid.UUID, name string, class Classification) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Classification: class,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
