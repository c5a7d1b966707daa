package sorter

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/pb2jamz/Signal-Sorter/common/errors"
	"github.com/pb2jamz/Signal-Sorter/models"
	"github.com/pb2jamz/Signal-Sorter/pkg/httputil"
	"github.com/pb2jamz/Signal-Sorter/pkg/middleware"
	"github.com/pb2jamz/Signal-Sorter/repository"
	"github.com/pb2jamz/Signal-Sorter/triage"
)

// ItemHandler handles manual item management endpoints.
type ItemHandler struct {
	items    *repository.ItemStore
	notifier *repository.Notifier
	log      zerolog.Logger
}

// NewItemHandler creates an item handler.
func NewItemHandler(items *repository.ItemStore, notifier *repository.Notifier, logger zerolog.Logger) *ItemHandler {
	return &ItemHandler{items: items, notifier: notifier, log: logger}
}

// CreateItemRequest is the manual item creation request body.
type CreateItemRequest struct {
	Name           string `json:"name"`
	Classification string `json:"classification"`
	What           string `json:"what,omitempty"`
	Why            string `json:"why,omitempty"`
	NextAction     string `json:"next_action,omitempty"`
}

// UpdateItemRequest is the item update request body. Nil fields are left
// unchanged.
type UpdateItemRequest struct {
	Name           *string `json:"name,omitempty"`
	Classification *string `json:"classification,omitempty"`
	What           *string `json:"what,omitempty"`
	Why            *string `json:"why,omitempty"`
	NextAction     *string `json:"next_action,omitempty"`
}

// activeNameCollision reports whether name normalizes identically to any
// active item other than excludeID. Every path that introduces a name into
// the active set (create, rename, uncomplete) runs this check so no two
// active items ever share a normalized name.
func activeNameCollision(active []models.Item, name string, excludeID uuid.UUID) bool {
	key := triage.Normalize(name)
	for _, existing := range active {
		if existing.ID == excludeID {
			continue
		}
		if triage.Normalize(existing.Name) == key {
			return true
		}
	}
	return false
}

// List returns the user's items. The filter query parameter selects all
// (default), active or completed.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	var items []models.Item
	switch c.Query("filter", "all") {
	case "active":
		items, err = h.items.ListActive(c.Context(), userID)
	case "completed":
		items, err = h.items.ListCompleted(c.Context(), userID)
	case "all":
		items, err = h.items.List(c.Context(), userID)
	default:
		return httputil.BadRequest(c, "filter must be all, active or completed")
	}
	if err != nil {
		return httputil.Error(c, err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return httputil.Success(c, items)
}

// Get returns one item.
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid item id")
	}

	item, err := h.items.Get(c.Context(), userID, itemID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, item)
}

// Create adds an item manually, bypassing triage. The cleaned name must not
// collide with an existing active item.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	name := triage.CleanName(req.Name)
	if name == "" {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"name": "required",
		})
	}

	class, err := models.ParseClassification(req.Classification)
	if err != nil {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"classification": "must be SIGNAL, NECESSARY or NOISE",
		})
	}

	active, err := h.items.ListActive(c.Context(), userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	if activeNameCollision(active, name, uuid.Nil) {
		return httputil.Error(c, apperrors.ErrDuplicateItem)
	}

	item := models.NewItem(userID, name, class)
	item.What = strings.TrimSpace(req.What)
	item.Why = strings.TrimSpace(req.Why)
	item.NextAction = strings.TrimSpace(req.NextAction)

	saved, err := h.items.Create(c.Context(), *item)
	if err != nil {
		return httputil.Error(c, err)
	}

	h.notifier.PublishItemEvent(c.Context(), userID, repository.ItemEvent{
		Type:           repository.EventItemCreated,
		ItemID:         saved.ID.String(),
		Name:           saved.Name,
		Classification: saved.Classification,
	})

	return httputil.Created(c, saved)
}

// Update changes an item's name, classification or elaboration fields.
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid item id")
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	item, err := h.items.Get(c.Context(), userID, itemID)
	if err != nil {
		return httputil.Error(c, err)
	}

	if req.Name != nil {
		name := triage.CleanName(*req.Name)
		if name == "" {
			return httputil.ValidationError(c, "validation failed", map[string]string{
				"name": "must not be empty",
			})
		}
		if !item.Completed {
			active, err := h.items.ListActive(c.Context(), userID)
			if err != nil {
				return httputil.Error(c, err)
			}
			if activeNameCollision(active, name, itemID) {
				return httputil.Error(c, apperrors.ErrDuplicateItem)
			}
		}
		if item, err = h.items.Rename(c.Context(), userID, itemID, name); err != nil {
			return httputil.Error(c, err)
		}
	}

	class := item.Classification
	if req.Classification != nil {
		if class, err = models.ParseClassification(*req.Classification); err != nil {
			return httputil.ValidationError(c, "validation failed", map[string]string{
				"classification": "must be SIGNAL, NECESSARY or NOISE",
			})
		}
	}

	what := item.What
	if req.What != nil {
		what = strings.TrimSpace(*req.What)
	}
	why := item.Why
	if req.Why != nil {
		why = strings.TrimSpace(*req.Why)
	}
	nextAction := item.NextAction
	if req.NextAction != nil {
		nextAction = strings.TrimSpace(*req.NextAction)
	}

	saved, err := h.items.Update(c.Context(), userID, itemID, class, what, why, nextAction)
	if err != nil {
		return httputil.Error(c, err)
	}

	h.notifier.PublishItemEvent(c.Context(), userID, repository.ItemEvent{
		Type:           repository.EventItemReclassified,
		ItemID:         saved.ID.String(),
		Name:           saved.Name,
		Classification: saved.Classification,
	})

	return httputil.Success(c, saved)
}

// Complete marks an item done.
func (h *ItemHandler) Complete(c *fiber.Ctx) error {
	return h.setCompleted(c, true, repository.EventItemCompleted)
}

// Uncomplete returns a completed item to the active set.
func (h *ItemHandler) Uncomplete(c *fiber.Ctx) error {
	return h.setCompleted(c, false, repository.EventItemReopened)
}

func (h *ItemHandler) setCompleted(c *fiber.Ctx, completed bool, eventType string) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid item id")
	}

	// Reactivation can collide with an active item created since this one
	// was completed; the active set must never hold two normalized-equal
	// names.
	if !completed {
		item, err := h.items.Get(c.Context(), userID, itemID)
		if err != nil {
			return httputil.Error(c, err)
		}
		active, err := h.items.ListActive(c.Context(), userID)
		if err != nil {
			return httputil.Error(c, err)
		}
		if activeNameCollision(active, item.Name, itemID) {
			return httputil.Error(c, apperrors.ErrDuplicateItem)
		}
	}

	saved, err := h.items.SetCompleted(c.Context(), userID, itemID, completed)
	if err != nil {
		return httputil.Error(c, err)
	}

	h.notifier.PublishItemEvent(c.Context(), userID, repository.ItemEvent{
		Type:           eventType,
		ItemID:         saved.ID.String(),
		Name:           saved.Name,
		Classification: saved.Classification,
	})

	return httputil.Success(c, saved)
}

// Delete removes an item permanently.
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid item id")
	}

	if err := h.items.Delete(c.Context(), userID, itemID); err != nil {
		return httputil.Error(c, err)
	}

	h.notifier.PublishItemEvent(c.Context(), userID, repository.ItemEvent{
		Type:   repository.EventItemDeleted,
		ItemID: itemID.String(),
	})

	return httputil.NoContent(c)
}
