package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medical-records-service/internal/api/dto"
	"github.com/spec-kit/medical-records-service/internal/auth"
	"github.com/spec-kit/medical-records-service/internal/domain"
	"github.com/spec-kit/medical-records-service/internal/service"
	apperrors "github.com/spec-kit/medical-records-service/pkg/util"
)

// AuthHandler exposes login, logout and registration endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	cookie *auth.SessionCookie
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie *auth.SessionCookie) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Please provide email and password")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("Please provide email and password")
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("Invalid credentials")
		}
		return err
	}

	h.cookie.Attach(c, token)
	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"user": user.Profile(),
		},
	})
}

// Logout handles POST /api/auth/logout. It cannot fail: the cookie is
// cleared unconditionally, with no credential or token validation.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// best-effort subject resolution for the audit trail only
	userID := ""
	if token, ok := h.cookie.Extract(c); ok {
		if id, err := h.auth.TokenManager().Verify(token); err == nil {
			userID = id
		}
	}
	h.auth.Logout(c.Context(), userID)

	h.cookie.Clear(c)
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   nil,
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return apperrors.NewBadRequest("email, password, firstName and lastName required")
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Password, domain.UserRole(req.Role), req.FirstName, req.LastName)
	if err != nil {
		return apperrors.NewBadRequest(err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"user": user.Profile(),
		},
	})
}
