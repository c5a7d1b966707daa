package triage

import (
	"github.com/rs/zerolog"

	"github.com/pb2jamz/Signal-Sorter/models"
)

// DefaultMatchThreshold is the minimum similarity an existing item must
// strictly exceed to be treated as the same task as a candidate.
const DefaultMatchThreshold = 0.75

// ItemUpdate describes how an existing item should change after a candidate
// matched it.
type ItemUpdate struct {
	Item           models.Item
	Classification models.Classification
	What           string
	Why            string
	NextAction     string
}

// Result partitions reconciled candidates: genuinely new items, updates to
// existing items, and the count dropped as redundant.
type Result struct {
	Created []Candidate
	Updated []ItemUpdate
	Skipped int
}

// FindMatch returns the existing item most similar to name, provided the
// similarity strictly exceeds threshold. Ties keep the first-encountered
// item. The second return reports whether any item qualified.
func FindMatch(name string, existing []models.Item, threshold float64) (models.Item, float64, bool) {
	var best models.Item
	bestScore := threshold
	found := false
	for _, item := range existing {
		score := Similarity(name, item.Name)
		if score > bestScore {
			best = item
			bestScore = score
			found = true
		}
	}
	if !found {
		return models.Item{}, 0, false
	}
	return best, bestScore, true
}

// Reconciler resolves parsed candidates against the active item set.
type Reconciler struct {
	threshold float64
	log       zerolog.Logger
}

// NewReconciler creates a reconciler. A threshold outside (0, 1) falls back
// to the default.
func NewReconciler(threshold float64, logger zerolog.Logger) *Reconciler {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultMatchThreshold
	}
	return &Reconciler{threshold: threshold, log: logger}
}

// Reconcile decides, for each candidate, whether it creates a new item,
// updates an existing one, or is dropped as redundant. A matched item whose
// classification already equals the candidate's is a skip; a matched item
// with a differing classification becomes an update carrying the candidate's
// non-empty elaboration fields. Pure with respect to inputs: existing is
// never mutated.
func (r *Reconciler) Reconcile(candidates []Candidate, existing []models.Item) Result {
	var res Result
	for _, c := range candidates {
		match, score, ok := FindMatch(c.Name, existing, r.threshold)
		if !ok {
			r.log.Debug().
				Str("candidate", c.Name).
				Msg("no match above threshold, creating")
			res.Created = append(res.Created, c)
			continue
		}

		if match.Classification == c.Classification {
			r.log.Debug().
				Str("candidate", c.Name).
				Str("matched", match.Name).
				Float64("score", score).
				Msg("classification unchanged, skipping")
			res.Skipped++
			continue
		}

		r.log.Debug().
			Str("candidate", c.Name).
			Str("matched", match.Name).
			Float64("score", score).
			Str("from", string(match.Classification)).
			Str("to", string(c.Classification)).
			Msg("reclassifying matched item")
		res.Updated = append(res.Updated, ItemUpdate{
			Item:           match,
			Classification: c.Classification,
			What:           firstNonEmpty(c.What, match.What),
			Why:            firstNonEmpty(c.Why, match.Why),
			NextAction:     firstNonEmpty(c.NextAction, match.NextAction),
		})
	}
	return res
}

func firstNonEmpty(candidate, existing string) string {
	if candidate != "" {
		return candidate
	}
	return existing
}
