package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "review budget", "review budget", 0},
		{"both empty", "", "", 0},
		{"one empty", "", "abc", 3},
		{"single substitution", "cat", "car", 1},
		{"single insertion", "cat", "cart", 1},
		{"single deletion", "cart", "cat", 1},
		{"classic kitten", "kitten", "sitting", 3},
		{"unicode runes", "héllo", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"review budget", "review the budget"},
		{"ship release", "fix the leak"},
		{"", "anything"},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical names score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("Review budget", "Review budget"))
	})

	t.Run("case and punctuation are ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("Ship release!", "ship release"))
	})

	t.Run("both empty after normalization score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("!!!", "???"))
	})

	t.Run("disjoint names score low", func(t *testing.T) {
		assert.Less(t, Similarity("write report", "buy groceries"), 0.5)
	})

	t.Run("near-identical names cross the match threshold", func(t *testing.T) {
		// "review budget" vs "review the budget": distance 4 over 17 runes.
		score := Similarity("Review budget", "Review the budget")
		assert.InDelta(t, 1.0-4.0/17.0, score, 1e-9)
		assert.Greater(t, score, DefaultMatchThreshold)
	})

	t.Run("score stays within unit interval", func(t *testing.T) {
		for _, pair := range [][2]string{
			{"a", "completely different thing"},
			{"x", ""},
			{"same", "same"},
		} {
			s := Similarity(pair[0], pair[1])
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	})
}
