package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/books"
	"github.com/andrewjordancampbell/TurnTogether/internal/cache"
	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

type ClubHandler struct {
	clubService *service.ClubService
	roomCache   *cache.RoomCache
}

func NewClubHandler(clubService *service.ClubService, roomCache *cache.RoomCache) *ClubHandler {
	return &ClubHandler{clubService: clubService, roomCache: roomCache}
}

type CreateClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (h *ClubHandler) CreateClub(c *fiber.Ctx) error {
	var req CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	club, err := h.clubService.CreateClub(req.Name, req.Description, req.IsPublic, userID)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(club)
}

// GetClub returns the club with the viewer's standing attached. The
// flags come from the membership rows loaded in the same read, so the
// page renders from one consistent snapshot.
func (h *ClubHandler) GetClub(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, _ := httpx.LocalUint(c, "userID")

	club, err := h.clubService.GetClub(clubID)
	if err != nil {
		return httpx.FromError(c, err)
	}

	resp := fiber.Map{
		"club":      club,
		"is_member": service.MemberOf(club.Members, userID),
		"is_admin":  service.AdminOf(club.Members, userID),
	}

	if club.CurrentBookID != nil {
		alsoReading, err := h.clubService.AlsoReadingCount(club.ID, *club.CurrentBookID)
		if err != nil {
			log.Printf("Also-reading count failed for club %d: %v", club.ID, err)
		} else {
			resp["also_reading"] = alsoReading
		}
	}

	if count, err := h.roomCache.ReaderCount(club.ID); err == nil {
		resp["readers_online"] = count
	}

	return c.JSON(resp)
}

func (h *ClubHandler) GetMyClubs(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	clubs, err := h.clubService.GetUserClubs(userID)
	if err != nil {
		return httpx.Internal(c, "clubs_fetch_failed")
	}

	return c.JSON(clubs)
}

func (h *ClubHandler) DiscoverClubs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	clubs, err := h.clubService.DiscoverPublicClubs(limit)
	if err != nil {
		return httpx.Internal(c, "clubs_fetch_failed")
	}

	return c.JSON(clubs)
}

func (h *ClubHandler) JoinClub(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.clubService.JoinClub(clubID, userID); err != nil {
		return httpx.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Joined club"})
}

type joinByInviteRequest struct {
	InviteCode string `json:"invite_code"`
}

func (h *ClubHandler) JoinByInvite(c *fiber.Ctx) error {
	var req joinByInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	club, err := h.clubService.JoinByInviteCode(req.InviteCode, userID)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.JSON(club)
}

func (h *ClubHandler) LeaveClub(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.clubService.LeaveClub(clubID, userID); err != nil {
		return httpx.Internal(c, "leave_failed")
	}

	return c.JSON(fiber.Map{"message": "Left club"})
}

func (h *ClubHandler) GetMembers(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}

	members, err := h.clubService.GetMembers(clubID)
	if err != nil {
		return httpx.Internal(c, "members_fetch_failed")
	}

	return c.JSON(members)
}

// SetCurrentBook points the club at a catalog pick. Admin only; the
// service re-checks the role against a fresh membership row.
func (h *ClubHandler) SetCurrentBook(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var pick books.SearchResult
	if err := c.BodyParser(&pick); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	book, err := h.clubService.SetCurrentBook(clubID, userID, pick)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.JSON(book)
}

func (h *ClubHandler) ListChapters(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}

	chapters, err := h.clubService.ListChapters(clubID)
	if err != nil {
		return httpx.Internal(c, "chapters_fetch_failed")
	}

	return c.JSON(chapters)
}

func (h *ClubHandler) AddChapter(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.ChapterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	chapter, err := h.clubService.AddChapter(clubID, userID, input)
	if err != nil {
		return httpx.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(chapter)
}

func (h *ClubHandler) DeleteChapter(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}
	chapterID, err := c.ParamsInt("chapterID")
	if err != nil || chapterID <= 0 {
		return httpx.BadRequest(c, "invalid_chapter_id", "Invalid chapter ID")
	}
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.clubService.DeleteChapter(clubID, userID, uint(chapterID)); err != nil {
		return httpx.FromError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Chapter deleted"})
}

// GetRoomOccupancy reports who is in the reading room right now, from
// the Redis mirror. Display only.
func (h *ClubHandler) GetRoomOccupancy(c *fiber.Ctx) error {
	clubID, err := clubIDParam(c)
	if err != nil {
		return err
	}

	readers, err := h.roomCache.Readers(clubID)
	if err != nil {
		return httpx.Internal(c, "occupancy_fetch_failed")
	}
	if readers == nil {
		readers = []uint{}
	}

	return c.JSON(fiber.Map{
		"club_id": clubID,
		"readers": readers,
		"count":   len(readers),
	})
}

func clubIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, httpx.BadRequest(c, "invalid_club_id", "Invalid club ID")
	}
	return uint(id), nil
}
