package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// UpdateMyProgress upserts the caller's row for (book, club). The row
// belongs to the caller alone; there is no way to write someone else's.
func (h *ProgressHandler) UpdateMyProgress(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.UpdateProgressInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	input.ClubID = clubID

	progress, err := h.progressService.UpdateProgress(userID, input)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.JSON(progress)
}

func (h *ProgressHandler) GetMyProgress(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	bookID := c.QueryInt("book_id", 0)
	if bookID <= 0 {
		return httpx.BadRequest(c, "missing_book_id", "book_id parameter is required")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	progress, err := h.progressService.GetProgress(userID, uint(bookID), clubID)
	if err != nil {
		return httpx.Internal(c, "progress_fetch_failed")
	}

	return c.JSON(progress)
}

// ListClubProgress returns the club's rows ranked by percent complete.
func (h *ProgressHandler) ListClubProgress(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}

	rows, err := h.progressService.ListClubProgress(clubID)
	if err != nil {
		return httpx.Internal(c, "progress_fetch_failed")
	}

	return c.JSON(rows)
}
