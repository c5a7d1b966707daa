package sorter

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pb2jamz/Signal-Sorter/models"
)

func activeItem(name string) models.Item {
	return models.Item{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Name:           name,
		Classification: models.ClassNecessary,
	}
}

func TestActiveNameCollision(t *testing.T) {
	budget := activeItem("Review budget")
	release := activeItem("Ship release")
	active := []models.Item{budget, release}

	t.Run("fresh name has no collision", func(t *testing.T) {
		assert.False(t, activeNameCollision(active, "Buy groceries", uuid.Nil))
	})

	t.Run("exact duplicate collides", func(t *testing.T) {
		assert.True(t, activeNameCollision(active, "Review budget", uuid.Nil))
	})

	t.Run("collision is case and punctuation insensitive", func(t *testing.T) {
		assert.True(t, activeNameCollision(active, "review budget!", uuid.Nil))
		assert.True(t, activeNameCollision(active, "**Ship release**", uuid.Nil))
	})

	t.Run("rename onto another active name collides", func(t *testing.T) {
		// PATCH renaming "Ship release" to "Review budget" must be refused.
		assert.True(t, activeNameCollision(active, "Review budget", release.ID))
	})

	t.Run("item never collides with itself", func(t *testing.T) {
		// Renaming an item to a variant of its own name is fine.
		assert.False(t, activeNameCollision(active, "Review Budget", budget.ID))
	})

	t.Run("reactivation collides with a newer active duplicate", func(t *testing.T) {
		// Completed item's name re-created by triage while it was done; the
		// old row must not come back into the active set.
		completed := activeItem("Review budget")
		assert.True(t, activeNameCollision(active, completed.Name, completed.ID))
	})

	t.Run("empty active set never collides", func(t *testing.T) {
		assert.False(t, activeNameCollision(nil, "Anything", uuid.Nil))
	})
}
