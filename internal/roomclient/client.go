package roomclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/handlers/ws"
)

// State of a room subscription.
type State string

const (
	StateIdle        State = "idle"
	StateSubscribing State = "subscribing"
	StateSubscribed  State = "subscribed"
	StateTornDown    State = "torn_down"
)

// Identity is the authenticated user the client subscribes as. It is
// used for the local echo; the server derives the wire identity from
// the bearer token, not from anything the client sends.
type Identity struct {
	UserID      uint
	DisplayName string
}

// Conn is the subset of the websocket connection the client uses.
// gorilla/websocket connections satisfy it; tests use in-memory fakes.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// DialFunc establishes the websocket connection for a channel.
type DialFunc func(ctx context.Context, url string, header http.Header) (Conn, error)

func gorillaDial(ctx context.Context, url string, header http.Header) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Client subscribes a reader to one reading room at a time. Joining a
// new room tears down the previous subscription first, so a client
// never holds two live channels.
type Client struct {
	baseURL  string
	token    string
	identity Identity
	dial     DialFunc

	mu     sync.Mutex
	handle *subscription
}

// Option configures a Client.
type Option func(*Client)

// WithDialer overrides the websocket dialer. Used by tests.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

// NewClient creates a room client. baseURL is the websocket origin,
// e.g. "ws://localhost:3000".
func NewClient(baseURL, token string, identity Identity, opts ...Option) *Client {
	client := &Client{
		baseURL:  baseURL,
		token:    token,
		identity: identity,
		dial:     gorillaDial,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// State reports the current subscription state. A client with no
// handle is idle.
func (c *Client) State() State {
	c.mu.Lock()
	sub := c.handle
	c.mu.Unlock()
	if sub == nil {
		return StateIdle
	}
	return sub.currentState()
}

// ChannelKey returns the key of the current subscription, or "" when
// there is none.
func (c *Client) ChannelKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return ""
	}
	return c.handle.channelKey
}

// Join subscribes to a club's reading room. Calling Join again, for
// the same club or another, tears down the previous subscription
// before opening the new one. A failed handshake leaves the client
// without a handle and returns ErrChannelUnavailable.
func (c *Client) Join(ctx context.Context, clubID uint) error {
	c.mu.Lock()
	previous := c.handle
	c.handle = nil
	c.mu.Unlock()
	if previous != nil {
		previous.teardown()
	}

	sub := &subscription{
		channelKey: ws.RoomKey(clubID),
		identity:   c.identity,
		state:      StateSubscribing,
	}

	url := fmt.Sprintf("%s/ws/rooms/%d", c.baseURL, clubID)
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, err := c.dial(ctx, url, header)
	if err != nil {
		sub.teardown()
		return fmt.Errorf("%w: %s", apperr.ErrChannelUnavailable, sub.channelKey)
	}

	sub.mu.Lock()
	sub.conn = conn
	sub.state = StateSubscribed
	sub.mu.Unlock()

	c.mu.Lock()
	c.handle = sub
	c.mu.Unlock()

	go sub.readLoop(conn)

	return sub.sendTrack()
}

// Leave tears down the current subscription. The handle is detached
// before the connection closes, so events racing the teardown are
// discarded rather than applied. Leaving twice is a no-op.
func (c *Client) Leave() {
	c.mu.Lock()
	sub := c.handle
	c.handle = nil
	c.mu.Unlock()
	if sub != nil {
		sub.teardown()
	}
}

// Track re-announces presence on the current channel. A no-op when
// nothing is subscribed.
func (c *Client) Track() error {
	c.mu.Lock()
	sub := c.handle
	c.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.sendTrack()
}

// SendChat sends a chat message to the room. The sender's copy is
// appended locally before the frame goes out: the relay never echoes
// a broadcast back to its origin. Sending with no live subscription
// is a silent no-op.
func (c *Client) SendChat(text string) error {
	c.mu.Lock()
	sub := c.handle
	c.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.sendChat(text)
}

// Roster returns the latest presence snapshot.
func (c *Client) Roster() []ws.PresenceRecord {
	c.mu.Lock()
	sub := c.handle
	c.mu.Unlock()
	if sub == nil {
		return []ws.PresenceRecord{}
	}
	return sub.rosterSnapshot()
}

// Messages returns the chat transcript accumulated on this
// subscription, local echoes included, in arrival order.
func (c *Client) Messages() []ws.ChatPayload {
	c.mu.Lock()
	sub := c.handle
	c.mu.Unlock()
	if sub == nil {
		return []ws.ChatPayload{}
	}
	return sub.messagesSnapshot()
}

// subscription is one live channel handle. It dies with Leave or a
// read error and is never reused.
type subscription struct {
	channelKey string
	identity   Identity

	mu       sync.Mutex
	state    State
	conn     Conn
	roster   []ws.PresenceRecord
	messages []ws.ChatPayload
}

func (s *subscription) currentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *subscription) teardown() {
	s.mu.Lock()
	if s.state == StateTornDown {
		s.mu.Unlock()
		return
	}
	s.state = StateTornDown
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (s *subscription) sendTrack() error {
	return s.writeFrame("track", ws.MessageTrack{OnlineAt: time.Now()})
}

func (s *subscription) sendChat(text string) error {
	if text == "" {
		return nil
	}
	timestamp := time.Now()

	s.mu.Lock()
	if s.state != StateSubscribed {
		s.mu.Unlock()
		return nil
	}
	// Local echo goes in before the network write.
	s.messages = append(s.messages, ws.ChatPayload{
		UserID:      s.identity.UserID,
		DisplayName: s.identity.DisplayName,
		Text:        text,
		Timestamp:   timestamp,
	})
	s.mu.Unlock()

	return s.writeFrame("chat", ws.MessageChat{Text: text, Timestamp: timestamp})
}

func (s *subscription) writeFrame(msgType string, payload interface{}) error {
	s.mu.Lock()
	conn := s.conn
	state := s.state
	s.mu.Unlock()
	if state != StateSubscribed || conn == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(ws.SerializedMessage{Type: msgType, Payload: raw})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (s *subscription) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.teardown()
			return
		}
		s.apply(data)
	}
}

// apply decodes one server frame and folds it into the local state.
// Frames arriving after teardown are discarded.
func (s *subscription) apply(data []byte) {
	var wrapper ws.SerializedMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return
	}

	switch wrapper.Type {
	case ws.EventSync:
		var payload ws.SyncPayload
		if err := json.Unmarshal(wrapper.Payload, &payload); err != nil {
			return
		}
		s.mu.Lock()
		if s.state != StateTornDown {
			// Snapshots replace the roster wholesale.
			s.roster = payload.Participants
		}
		s.mu.Unlock()
	case ws.EventChat:
		var payload ws.ChatPayload
		if err := json.Unmarshal(wrapper.Payload, &payload); err != nil {
			return
		}
		s.mu.Lock()
		if s.state != StateTornDown {
			s.messages = append(s.messages, payload)
		}
		s.mu.Unlock()
	}
}

func (s *subscription) rosterSnapshot() []ws.PresenceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster := make([]ws.PresenceRecord, len(s.roster))
	copy(roster, s.roster)
	return roster
}

func (s *subscription) messagesSnapshot() []ws.ChatPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]ws.ChatPayload, len(s.messages))
	copy(messages, s.messages)
	return messages
}
