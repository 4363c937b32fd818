package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/authgate/internal/middleware"
	"github.com/example/authgate/internal/services"
)

// ProfileHandler manages the authenticated user endpoints.
type ProfileHandler struct {
	svc *services.AuthService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(svc *services.AuthService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GetUser returns the authenticated user's profile.
func (h *ProfileHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetUser(userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"phone":    user.Phone,
			"verified": user.Verified,
		},
	})
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUser changes the authenticated user's name and email. Phone and
// password cannot be changed through this endpoint.
func (h *ProfileHandler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.svc.UpdateProfile(userID, req.Name, req.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user": fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"phone":    user.Phone,
			"verified": user.Verified,
		},
	})
}
