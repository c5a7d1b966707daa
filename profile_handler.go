package sorter

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pb2jamz/Signal-Sorter/models"
	"github.com/pb2jamz/Signal-Sorter/pkg/httputil"
	"github.com/pb2jamz/Signal-Sorter/pkg/middleware"
	"github.com/pb2jamz/Signal-Sorter/repository"
)

// ProfileHandler handles the user context profile endpoints.
type ProfileHandler struct {
	profiles *repository.ProfileStore
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(profiles *repository.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// UpdateProfileRequest is the profile update request body. All fields are
// optional context for the triage prompt.
type UpdateProfileRequest struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	Priorities     string `json:"priorities"`
	Goals          string `json:"goals"`
	WorkdayStart   string `json:"workday_start"`
	FocusChallenge string `json:"focus_challenge"`
}

// Get returns the user's profile; an unsaved profile comes back empty.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	profile, err := h.profiles.Get(c.Context(), userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, profile)
}

// Update replaces the user's profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	profile, err := h.profiles.Upsert(c.Context(), models.Profile{
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Role:           strings.TrimSpace(req.Role),
		Priorities:     strings.TrimSpace(req.Priorities),
		Goals:          strings.TrimSpace(req.Goals),
		WorkdayStart:   strings.TrimSpace(req.WorkdayStart),
		FocusChallenge: strings.TrimSpace(req.FocusChallenge),
	})
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, profile)
}
