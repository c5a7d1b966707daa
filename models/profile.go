package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user context injected into triage prompts. Every field is
// optional; empty fields are omitted from the rendered context block.
type Profile struct {
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Name           string    `json:"name,omitempty" db:"name"`
	Role           string    `json:"role,omitempty" db:"role"`
	Priorities     string    `json:"priorities,omitempty" db:"priorities"`
	Goals          string    `json:"goals,omitempty" db:"goals"`
	WorkdayStart   string    `json:"workday_start,omitempty" db:"workday_start"`
	FocusChallenge string    `json:"focus_challenge,omitempty" db:"focus_challenge"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsEmpty reports whether the profile carries no usable context.
func (p Profile) IsEmpty() bool {
	return p.Name == "" && p.Role == "" && p.Priorities == "" &&
		p.Goals == "" && p.WorkdayStart == "" && p.FocusChallenge == ""
}
