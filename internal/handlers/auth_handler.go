package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		if apperr.IsValidation(err) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Internal(c, "register_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_credentials", "Email and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", "Invalid email or password")
	}

	return c.JSON(result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.RefreshToken == "" {
		return httpx.BadRequest(c, "missing_refresh_token", "refresh_token is required")
	}

	result, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token")
	}

	return c.JSON(result)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		return httpx.Internal(c, "logout_failed")
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword always answers 200 for well-formed addresses so the
// response never reveals whether an email is registered.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		if apperr.IsValidation(err) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Internal(c, "reset_request_failed")
	}

	return c.JSON(fiber.Map{"message": "If that email is registered, a reset link is on its way"})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.Token == "" {
		return httpx.BadRequest(c, "missing_token", "token is required")
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		if apperr.IsValidation(err) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Unauthorized(c, "invalid_reset_token", "Invalid or expired reset token")
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}

// CSRF issues the double-submit token for cookie-authenticated browsers.
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return httpx.Internal(c, "csrf_issue_failed")
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     "tt_csrf",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"csrf_token": token})
}
