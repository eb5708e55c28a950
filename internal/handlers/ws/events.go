package ws

import (
	"fmt"
	"time"
)

// Event type names pushed from the hub to subscribers.
const (
	EventSync = "sync"
	EventChat = "chat"
)

// RoomKey derives the channel name for a club. Clients of the same club
// always land on the same channel; different clubs never cross-talk.
func RoomKey(clubID uint) string {
	return fmt.Sprintf("room-%d", clubID)
}

// PresenceRecord is one subscriber's liveness entry. It lives only in
// hub memory for the lifetime of the subscription.
type PresenceRecord struct {
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	OnlineAt    time.Time `json:"online_at"`
}

// SyncPayload carries the full roster snapshot. Every sync replaces the
// subscriber's previous roster wholesale; deltas are never sent.
type SyncPayload struct {
	Participants []PresenceRecord `json:"participants"`
}

// ChatPayload is an ephemeral chat message. It is relayed, never stored.
type ChatPayload struct {
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
