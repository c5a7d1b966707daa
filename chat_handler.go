package sorter

import (
	"context"
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

// fallbackReply is recorded as the assistant turn when the completion
// service fails, so the transcript never drops a user message silently.
const fallbackReply = "Sorry, I couldn't reach the triage assistant just now. Your message is saved; try again in a moment."

// ChatHandler handles the triage conversation endpoints.
type ChatHandler struct {
	engine   *triage.Engine
	items    *repository.ItemStore
	messages *repository.MessageStore
	profiles *repository.ProfileStore
	notifier *repository.Notifier
	log      zerolog.Logger
}

// NewChatHandler creates a chat handler. engine may be nil when no
// completion provider is configured; Send then reports 503.
func NewChatHandler(engine *triage.Engine, items *repository.ItemStore, messages *repository.MessageStore, profiles *repository.ProfileStore, notifier *repository.Notifier, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		engine:   engine,
		items:    items,
		messages: messages,
		profiles: profiles,
		notifier: notifier,
		log:      logger,
	}
}

// SendRequest is the chat message request body.
type SendRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode,omitempty"` // "classify" (default) or "reprioritize"
}

// SendResponse is the chat message response body.
type SendResponse struct {
	Reply        string        `json:"reply"`
	NewItems     []models.Item `json:"new_items"`
	UpdatedItems []models.Item `json:"updated_items"`
}

// Send handles one turn of the triage conversation: runs the analysis,
// applies the resulting item changes and appends both turns to the
// transcript.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"message": "required",
		})
	}

	mode := triage.ModeClassify
	if req.Mode == string(triage.ModeReprioritize) {
		mode = triage.ModeReprioritize
	}

	ctx := c.Context()

	if h.engine == nil {
		return httputil.Error(c, apperrors.ErrTriageUnavailable)
	}

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	active, err := h.items.ListActive(ctx, userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	completed, err := h.items.ListCompleted(ctx, userID)
	if err != nil {
		return httputil.Error(c, err)
	}

	if _, err := h.messages.Append(ctx, *models.NewChatMessage(userID, models.RoleUser, req.Message)); err != nil {
		return httputil.Error(c, err)
	}

	analysis, err := h.engine.Analyze(ctx, req.Message, profile, active, completed, mode)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID.String()).Msg("triage analysis failed")
		if _, appendErr := h.messages.Append(ctx, *models.NewChatMessage(userID, models.RoleAssistant, fallbackReply)); appendErr != nil {
			h.log.Error().Err(appendErr).Msg("failed to record fallback reply")
		}
		return httputil.Error(c, apperrors.ErrCompletionFailed)
	}

	newItems := h.applyCreations(ctx, userID, analysis.NewItems)
	updatedItems := h.applyUpdates(ctx, analysis.Updates)

	if _, err := h.messages.Append(ctx, *models.NewChatMessage(userID, models.RoleAssistant, analysis.ResponseText)); err != nil {
		return httputil.Error(c, err)
	}

	return httputil.Success(c, SendResponse{
		Reply:        analysis.ResponseText,
		NewItems:     newItems,
		UpdatedItems: updatedItems,
	})
}

// applyCreations persists new candidates. Per-item failures are logged and
// skipped rather than failing the whole turn.
func (h *ChatHandler) applyCreations(ctx context.Context, userID uuid.UUID, candidates []triage.Candidate) []models.Item {
	created := make([]models.Item, 0, len(candidates))
	for _, cand := range candidates {
		item := models.NewItem(userID, cand.Name, cand.Classification)
		item.What = cand.What
		item.Why = cand.Why
		item.NextAction = cand.NextAction

		saved, err := h.items.Create(ctx, *item)
		if err != nil {
			h.log.Error().Err(err).Str("name", cand.Name).Msg("failed to create triaged item")
			continue
		}
		created = append(created, saved)
		h.notifier.PublishItemEvent(ctx, saved.UserID, repository.ItemEvent{
			Type:           repository.EventItemCreated,
			ItemID:         saved.ID.String(),
			Name:           saved.Name,
			Classification: saved.Classification,
		})
	}
	return created
}

// applyUpdates persists reclassifications resolved by the reconciler.
func (h *ChatHandler) applyUpdates(ctx context.Context, updates []triage.ItemUpdate) []models.Item {
	updated := make([]models.Item, 0, len(updates))
	for _, up := range updates {
		saved, err := h.items.Update(ctx, up.Item.UserID, up.Item.ID, up.Classification, up.What, up.Why, up.NextAction)
		if err != nil {
			h.log.Error().Err(err).Str("name", up.Item.Name).Msg("failed to reclassify item")
			continue
		}
		updated = append(updated, saved)
		h.notifier.PublishItemEvent(ctx, saved.UserID, repository.ItemEvent{
			Type:           repository.EventItemReclassified,
			ItemID:         saved.ID.String(),
			Name:           saved.Name,
			Classification: saved.Classification,
		})
	}
	return updated
}

// ListMessages returns the recent chat transcript in chronological order.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	limit := c.QueryInt("limit", 50)
	msgs, err := h.messages.ListRecent(c.Context(), userID, limit)
	if err != nil {
		return httputil.Error(c, err)
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return httputil.Success(c, msgs)
}
