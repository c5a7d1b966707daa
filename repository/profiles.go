package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pb2jamz/Signal-Sorter/models"
)

// ProfileStore persists user context profiles.
type ProfileStore struct {
	db *pgxpool.Pool
}

// NewProfileStore creates a profile store over the given pool.
func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the user's profile. A user without a saved profile gets the
// empty profile, not an error; prompt construction handles that case.
func (s *ProfileStore) Get(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRow(ctx, `
		SELECT user_id, name, role, priorities, goals, workday_start, focus_challenge, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &p.Name, &p.Role, &p.Priorities, &p.Goals,
		&p.WorkdayStart, &p.FocusChallenge, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{UserID: userID}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Upsert saves the user's profile, replacing any previous version.
func (s *ProfileStore) Upsert(ctx context.Context, p models.Profile) (models.Profile, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO profiles (user_id, name, role, priorities, goals, workday_start, focus_challenge)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			priorities = EXCLUDED.priorities,
			goals = EXCLUDED.goals,
			workday_start = EXCLUDED.workday_start,
			focus_challenge = EXCLUDED.focus_challenge,
			updated_at = now()
		RETURNING updated_at
	`, p.UserID, p.Name, p.Role, p.Priorities, p.Goals, p.WorkdayStart, p.FocusChallenge).
		Scan(&p.UpdatedAt)
	if err != nil {
		return models.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}
