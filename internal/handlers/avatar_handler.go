package handlers

import (
	"errors"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

type AvatarHandler struct {
	avatarService *service.AvatarService
}

func NewAvatarHandler(avatarService *service.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService}
}

func publicAPIBaseURL(c *fiber.Ctx) string {
	base := strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_API_BASE_URL")), "/")
	if base != "" {
		return base
	}
	// Fallback: infer from request.
	return strings.TrimRight(c.BaseURL(), "/") + "/api"
}

func (h *AvatarHandler) UploadMyAvatar(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return httpx.BadRequest(c, "missing_avatar", "avatar file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return httpx.BadRequest(c, "invalid_avatar", "Invalid avatar upload")
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	user, err := h.avatarService.UploadAvatar(c.Context(), userID, f, fileHeader.Size, contentType, publicAPIBaseURL(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageNotConfigured):
			return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
		case errors.Is(err, service.ErrUnsupportedAvatar):
			return httpx.BadRequest(c, "avatar_unsupported", "Unsupported image type")
		case errors.Is(err, service.ErrAvatarTooLarge):
			return httpx.BadRequest(c, "avatar_too_large", "Avatar is too large")
		default:
			return httpx.Internal(c, "avatar_upload_failed")
		}
	}

	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

func (h *AvatarHandler) DeleteMyAvatar(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.avatarService.DeleteAvatar(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
		}
		return httpx.Internal(c, "avatar_delete_failed")
	}

	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

// GetUserAvatar streams the stored image. Public: avatars render on
// club pages for members and non-members alike.
func (h *AvatarHandler) GetUserAvatar(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	obj, stat, err := h.avatarService.OpenAvatar(c.Context(), uint(targetID))
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
		}
		return httpx.NotFound(c, "avatar_not_found", "Avatar not found")
	}

	c.Set(fiber.HeaderContentType, stat.ContentType)
	c.Set(fiber.HeaderETag, stat.ETag)
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.SendStream(obj, int(stat.Size))
}
