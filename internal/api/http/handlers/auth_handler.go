package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-tracker/internal/api/dto"
	"github.com/spec-kit/complaint-tracker/internal/auth"
	"github.com/spec-kit/complaint-tracker/internal/service"
	apperrors "github.com/spec-kit/complaint-tracker/pkg/util"
)

// AuthHandler exposes signup, login and logout.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, secureCookie: secureCookie}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("please provide all required fields", missingFields(req))
	}

	user, token, _, err := h.auth.Signup(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, token, h.auth.TokenManager().TTL(), h.secureCookie)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserSummary(user)},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, token, h.auth.TokenManager().TTL(), h.secureCookie)
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserSummary(user)},
	})
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so this
// only removes the cookie; an issued token stays valid until expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context()); err != nil {
		return err
	}
	auth.ClearSessionCookie(c, h.secureCookie)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

func missingFields(req dto.SignupRequest) map[string]any {
	details := map[string]any{}
	if req.Name == "" {
		details["name"] = "required"
	}
	if req.Email == "" {
		details["email"] = "required"
	}
	if req.Password == "" {
		details["password"] = "required"
	}
	return details
}
