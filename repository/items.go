package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/pb2jamz/Signal-Sorter/common/errors"
	"github.com/pb2jamz/Signal-Sorter/models"
)

// ItemStore persists tracked items.
type ItemStore struct {
	db *pgxpool.Pool
}

// NewItemStore creates an item store over the given pool.
func NewItemStore(db *pgxpool.Pool) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, user_id, name, classification, what, why, next_action,
       completed, completed_at, created_at, updated_at`

func scanItem(row pgx.Row) (models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID, &item.UserID, &item.Name, &item.Classification,
		&item.What, &item.Why, &item.NextAction,
		&item.Completed, &item.CompletedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func (s *ItemStore) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns all of a user's items, active first, newest first within each
// group.
func (s *ItemStore) List(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE user_id = $1
		ORDER BY completed ASC, created_at DESC
	`, userID)
}

// ListActive returns the user's uncompleted items, oldest first. This is the
// working set reconciliation runs against.
func (s *ItemStore) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE user_id = $1 AND completed = false
		ORDER BY created_at ASC
	`, userID)
}

// ListCompleted returns the user's completed items, most recently completed
// first.
func (s *ItemStore) ListCompleted(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE user_id = $1 AND completed = true
		ORDER BY completed_at DESC NULLS LAST
	`, userID)
}

// Get returns one item owned by the user.
func (s *ItemStore) Get(ctx context.Context, userID, itemID uuid.UUID) (models.Item, error) {
	item, err := scanItem(s.db.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1 AND user_id = $2
	`, itemID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, apperrors.ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Create inserts a new item.
func (s *ItemStore) Create(ctx context.Context, item models.Item) (models.Item, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO items (id, user_id, name, classification, what, why, next_action)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, item.ID, item.UserID, item.Name, item.Classification, item.What, item.Why, item.NextAction).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return models.Item{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// Update overwrites an item's classification and elaboration fields.
func (s *ItemStore) Update(ctx context.Context, userID, itemID uuid.UUID, class models.Classification, what, why, nextAction string) (models.Item, error) {
	item, err := scanItem(s.db.QueryRow(ctx, `
		UPDATE items
		SET classification = $3, what = $4, why = $5, next_action = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns+`
	`, itemID, userID, class, what, why, nextAction))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, apperrors.ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// Rename changes an item's display name.
func (s *ItemStore) Rename(ctx context.Context, userID, itemID uuid.UUID, name string) (models.Item, error) {
	item, err := scanItem(s.db.QueryRow(ctx, `
		UPDATE items
		SET name = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns+`
	`, itemID, userID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, apperrors.ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("rename item: %w", err)
	}
	return item, nil
}

// SetCompleted marks an item completed or active again. Completing stamps
// completed_at; uncompleting clears it.
func (s *ItemStore) SetCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (models.Item, error) {
	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}
	item, err := scanItem(s.db.QueryRow(ctx, `
		UPDATE items
		SET completed = $3, completed_at = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns+`
	`, itemID, userID, completed, completedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, apperrors.ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("set item completed: %w", err)
	}
	return item, nil
}

// Delete removes an item permanently.
func (s *ItemStore) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM items WHERE id = $1 AND user_id = $2
	`, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}
