package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/andrewjordancampbell/TurnTogether/internal/cache"
	"github.com/andrewjordancampbell/TurnTogether/internal/handlers/ws"
	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
)

// RoomHandler runs the per-club reading rooms. Presence and chat are
// ephemeral: nothing that flows through here is written to the database.
type RoomHandler struct {
	clubService *service.ClubService
	hub         *ws.Hub
	roomCache   *cache.RoomCache
}

func NewRoomHandler(clubService *service.ClubService, roomCache *cache.RoomCache) *RoomHandler {
	return &RoomHandler{
		clubService: clubService,
		hub:         ws.NewHub(),
		roomCache:   roomCache,
	}
}

// GetHub returns the hub instance (useful for sending messages from other handlers)
func (h *RoomHandler) GetHub() *ws.Hub {
	return h.hub
}

// RequireRoomAccess gates the upgrade. Membership is checked against a
// fresh row before the socket opens; non-members never reach the hub.
func (h *RoomHandler) RequireRoomAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		clubID, err := clubIDParam(c)
		if err != nil {
			return err
		}
		userID, err := httpx.LocalUint(c, "userID")
		if err != nil {
			return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
		}

		isMember, err := h.clubService.IsMember(clubID, userID)
		if err != nil {
			return httpx.Internal(c, "membership_check_failed")
		}
		if !isMember {
			return httpx.Forbidden(c, "not_a_member", "Join the club to enter its reading room")
		}

		c.Locals("clubID", clubID)
		return c.Next()
	}
}

func (h *RoomHandler) HandleRoom(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	clubID := c.Locals("clubID").(uint)
	displayName := localDisplayName(c)
	room := ws.RoomKey(clubID)

	clientConn := h.hub.Register(room, userID, displayName, c)

	// Mirror occupancy into Redis for the club page.
	go func() {
		if err := h.roomCache.AddReader(clubID, userID); err != nil {
			log.Printf("Failed to mirror reader %d into room %d: %v", userID, clubID, err)
		}
	}()

	defer func() {
		// Scoped to this handler's connection: a reconnect replaces the
		// hub entry, and the replaced handler must not evict it on exit.
		// The occupancy mirror follows the same rule.
		if !h.hub.UnregisterConn(room, userID, clientConn) {
			return
		}
		go func() {
			if err := h.roomCache.RemoveReader(clubID, userID); err != nil {
				log.Printf("Failed to clear reader %d from room %d: %v", userID, clubID, err)
			}
		}()
	}()

	log.Printf("User %d entered %s", userID, room)

	ctx := &ws.RoomContext{
		Room:        room,
		UserID:      userID,
		DisplayName: displayName,
		Conn:        c,
		Hub:         h.hub,
	}

	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading frame from user %d in %s: %v", userID, room, err)
			break
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing frame from user %d in %s: %v", userID, room, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing %s from user %d in %s: %v", msg.GetType(), userID, room, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %d left %s", userID, room)
}

func localDisplayName(c *websocket.Conn) string {
	if v := c.Locals("displayName"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
