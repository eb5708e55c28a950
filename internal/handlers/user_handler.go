package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}

	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		if apperr.IsValidation(err) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Internal(c, "profile_update_failed")
	}

	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(uint(targetID))
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}

	// Public profile: email stays private.
	resp := user.ToResponse()
	resp.Email = ""
	return c.JSON(fiber.Map{"user": resp})
}
