package ws

import (
	"time"

	"github.com/andrewjordancampbell/TurnTogether/internal/validation"
)

// MessageChat is a chat broadcast from a subscriber. The hub relays it
// to everyone else in the room and never persists it.
type MessageChat struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (msg *MessageChat) GetType() string {
	return "chat"
}

func (msg *MessageChat) Process(ctx *RoomContext) error {
	text := validation.TrimAndLimit(msg.Text, validation.MaxChatMessageLength())
	if text == "" {
		return nil
	}
	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	ctx.Hub.BroadcastChat(ctx.Room, ctx.UserID, ChatPayload{
		UserID:      ctx.UserID,
		DisplayName: ctx.DisplayName,
		Text:        text,
		Timestamp:   timestamp,
	})
	return nil
}
