package ws

import "time"

// MessageTrack is the client's presence heartbeat. Identity comes from
// the authenticated context, never from the frame, so a subscriber
// cannot impersonate another member in the roster.
type MessageTrack struct {
	OnlineAt time.Time `json:"online_at"`
}

func (msg *MessageTrack) GetType() string {
	return "track"
}

func (msg *MessageTrack) Process(ctx *RoomContext) error {
	onlineAt := msg.OnlineAt
	if onlineAt.IsZero() {
		onlineAt = time.Now()
	}
	ctx.Hub.Track(ctx.Room, PresenceRecord{
		UserID:      ctx.UserID,
		DisplayName: ctx.DisplayName,
		OnlineAt:    onlineAt,
	})
	return nil
}
