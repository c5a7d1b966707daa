package triage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pb2jamz/Signal-Sorter/models"
)

func item(name string, class models.Classification) models.Item {
	return models.Item{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Name:           name,
		Classification: class,
	}
}

func TestFindMatch(t *testing.T) {
	existing := []models.Item{
		item("Review budget", models.ClassNecessary),
		item("Write quarterly report", models.ClassSignal),
	}

	t.Run("near-identical name matches", func(t *testing.T) {
		match, score, ok := FindMatch("Review the budget", existing, DefaultMatchThreshold)
		require.True(t, ok)
		assert.Equal(t, "Review budget", match.Name)
		assert.Greater(t, score, DefaultMatchThreshold)
	})

	t.Run("unrelated name does not match", func(t *testing.T) {
		_, _, ok := FindMatch("Buy groceries", existing, DefaultMatchThreshold)
		assert.False(t, ok)
	})

	t.Run("score equal to threshold is not a match", func(t *testing.T) {
		// "abcd" vs "abcz": distance 1 over 4 runes, exactly 0.75.
		_, _, ok := FindMatch("abcd", []models.Item{item("abcz", models.ClassSignal)}, 0.75)
		assert.False(t, ok)
	})

	t.Run("tie keeps first-encountered item", func(t *testing.T) {
		first := item("Plan sprint A", models.ClassSignal)
		second := item("Plan sprint B", models.ClassNoise)
		match, _, ok := FindMatch("Plan sprint C", []models.Item{first, second}, DefaultMatchThreshold)
		require.True(t, ok)
		assert.Equal(t, first.ID, match.ID)
	})

	t.Run("empty existing set", func(t *testing.T) {
		_, _, ok := FindMatch("Anything", nil, DefaultMatchThreshold)
		assert.False(t, ok)
	})
}

func TestReconcile(t *testing.T) {
	r := NewReconciler(DefaultMatchThreshold, zerolog.Nop())

	t.Run("unmatched candidate creates", func(t *testing.T) {
		res := r.Reconcile(
			[]Candidate{{Name: "Buy groceries", Classification: models.ClassNoise}},
			[]models.Item{item("Review budget", models.ClassNecessary)},
		)
		require.Len(t, res.Created, 1)
		assert.Empty(t, res.Updated)
		assert.Zero(t, res.Skipped)
	})

	t.Run("matched candidate with new classification updates", func(t *testing.T) {
		existing := item("Review budget", models.ClassNecessary)
		existing.What = "Q3 numbers"
		res := r.Reconcile(
			[]Candidate{{
				Name:           "Review the budget",
				Classification: models.ClassSignal,
				Why:            "Board meeting Friday",
			}},
			[]models.Item{existing},
		)
		assert.Empty(t, res.Created)
		require.Len(t, res.Updated, 1)
		up := res.Updated[0]
		assert.Equal(t, existing.ID, up.Item.ID)
		assert.Equal(t, models.ClassSignal, up.Classification)
		assert.Equal(t, "Q3 numbers", up.What, "existing field kept when candidate is empty")
		assert.Equal(t, "Board meeting Friday", up.Why, "candidate field wins when non-empty")
	})

	t.Run("matched candidate with same classification skips", func(t *testing.T) {
		res := r.Reconcile(
			[]Candidate{{Name: "Review the budget", Classification: models.ClassNecessary}},
			[]models.Item{item("Review budget", models.ClassNecessary)},
		)
		assert.Empty(t, res.Created)
		assert.Empty(t, res.Updated)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("reconcile is idempotent once applied", func(t *testing.T) {
		// After the update lands, running the same candidate again must skip.
		updated := item("Review budget", models.ClassSignal)
		res := r.Reconcile(
			[]Candidate{{Name: "Review the budget", Classification: models.ClassSignal}},
			[]models.Item{updated},
		)
		assert.Empty(t, res.Created)
		assert.Empty(t, res.Updated)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("existing set is not mutated", func(t *testing.T) {
		existing := []models.Item{item("Review budget", models.ClassNecessary)}
		before := existing[0]
		r.Reconcile(
			[]Candidate{{Name: "Review the budget", Classification: models.ClassSignal}},
			existing,
		)
		assert.Equal(t, before, existing[0])
	})
}
