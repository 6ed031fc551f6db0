package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medical-records-service/internal/auth"
	"github.com/spec-kit/medical-records-service/internal/service"
	apperrors "github.com/spec-kit/medical-records-service/pkg/util"
)

// UsersHandler exposes user profile endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Me GET /api/users/me returns the authenticated user's profile.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.UnauthorizedMessage)
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"user": user.Profile()}})
}

// List GET /api/users returns a page of profiles (admin only).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	profiles, err := h.service.ListProfiles(c.Context(), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"users": profiles}})
}
