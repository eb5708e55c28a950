package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

type DiscussionHandler struct {
	discussionService *service.DiscussionService
}

func NewDiscussionHandler(discussionService *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{discussionService: discussionService}
}

func (h *DiscussionHandler) ListDiscussions(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}

	discussions, err := h.discussionService.ListDiscussions(clubID)
	if err != nil {
		return httpx.Internal(c, "discussions_fetch_failed")
	}

	return c.JSON(discussions)
}

func (h *DiscussionHandler) CreateDiscussion(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.CreateDiscussionInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	input.ClubID = clubID

	discussion, err := h.discussionService.CreateDiscussion(userID, input)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(discussion)
}

func (h *DiscussionHandler) GetDiscussion(c *fiber.Ctx) error {
	discussionID, err := c.ParamsInt("id")
	if err != nil || discussionID <= 0 {
		return httpx.BadRequest(c, "invalid_discussion_id", "Invalid discussion ID")
	}

	discussion, err := h.discussionService.GetDiscussion(uint(discussionID))
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.JSON(discussion)
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (h *DiscussionHandler) AddComment(c *fiber.Ctx) error {
	discussionID, err := c.ParamsInt("id")
	if err != nil || discussionID <= 0 {
		return httpx.BadRequest(c, "invalid_discussion_id", "Invalid discussion ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	comment, err := h.discussionService.AddComment(userID, uint(discussionID), req.Content)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
