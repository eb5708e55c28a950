package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a room subscriber's connection with metadata
type ClientConnection struct {
	Conn        Conn
	Room        string
	UserID      uint
	DisplayName string
	LastPong    time.Time
	PingTicker  *time.Ticker
	CloseChan   chan struct{}
}

// Hub relays presence and chat between subscribers of per-club rooms.
// It owns no durable state: the roster and every chat frame exist only
// while connections are up.
type Hub struct {
	rooms        map[string]map[uint]*ClientConnection
	presence     map[string]map[uint]PresenceRecord
	mux          sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		rooms:        make(map[string]map[uint]*ClientConnection),
		presence:     make(map[string]map[uint]PresenceRecord),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a subscriber to a room. A second connection for the
// same (room, user) replaces the first: the old one is closed so one
// identity never holds two live subscriptions.
func (h *Hub) Register(room string, userID uint, displayName string, conn Conn) *ClientConnection {
	clientConn := &ClientConnection{
		Conn:        conn,
		Room:        room,
		UserID:      userID,
		DisplayName: displayName,
		LastPong:    time.Now(),
		PingTicker:  time.NewTicker(h.pingInterval),
		CloseChan:   make(chan struct{}),
	}

	h.mux.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[uint]*ClientConnection)
	}
	previous := h.rooms[room][userID]
	h.rooms[room][userID] = clientConn
	h.mux.Unlock()

	if previous != nil {
		previous.PingTicker.Stop()
		close(previous.CloseChan)
		_ = previous.Conn.Close()
	}

	go h.pingRoutine(clientConn)

	log.Printf("User %d joined %s (room size: %d)", userID, room, h.RoomCount(room))
	return clientConn
}

// Unregister removes whatever connection the room currently holds for
// the user, along with their presence entry.
func (h *Hub) Unregister(room string, userID uint) bool {
	return h.unregister(room, userID, nil)
}

// UnregisterConn removes a subscriber only while the room still points
// at the given connection. A handler whose connection was replaced by a
// reconnect exits through here without evicting the replacement; the
// return value reports whether anything was actually removed.
func (h *Hub) UnregisterConn(room string, userID uint, conn *ClientConnection) bool {
	return h.unregister(room, userID, conn)
}

func (h *Hub) unregister(room string, userID uint, only *ClientConnection) bool {
	h.mux.Lock()
	var removed, hadPresence bool
	if conns, ok := h.rooms[room]; ok {
		if client, exists := conns[userID]; exists && (only == nil || client == only) {
			client.PingTicker.Stop()
			close(client.CloseChan)
			delete(conns, userID)
			removed = true
		}
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
	// Presence leaves only with the connection that carried it. When the
	// entry was already replaced the user is still live on the new one.
	if removed {
		if records, ok := h.presence[room]; ok {
			if _, exists := records[userID]; exists {
				delete(records, userID)
				hadPresence = true
			}
			if len(records) == 0 {
				delete(h.presence, room)
			}
		}
	}
	h.mux.Unlock()

	if hadPresence {
		h.broadcastSync(room)
	}
	if removed {
		log.Printf("User %d left %s (room size: %d)", userID, room, h.RoomCount(room))
	}
	return removed
}

// Track records the subscriber's liveness heartbeat. Last write wins
// per user; every track pushes the full roster to the whole room.
func (h *Hub) Track(room string, record PresenceRecord) {
	h.mux.Lock()
	if h.presence[room] == nil {
		h.presence[room] = make(map[uint]PresenceRecord)
	}
	h.presence[room][record.UserID] = record
	h.mux.Unlock()

	h.broadcastSync(room)
}

// Roster returns the current presence snapshot for a room.
func (h *Hub) Roster(room string) []PresenceRecord {
	h.mux.RLock()
	defer h.mux.RUnlock()

	records := h.presence[room]
	roster := make([]PresenceRecord, 0, len(records))
	for _, rec := range records {
		roster = append(roster, rec)
	}
	return roster
}

// broadcastSync pushes the full roster snapshot to every subscriber of
// the room. Receivers replace, never merge.
func (h *Hub) broadcastSync(room string) {
	roster := h.Roster(room)

	data, err := json.Marshal(envelope{Type: EventSync, Payload: SyncPayload{Participants: roster}})
	if err != nil {
		log.Printf("Error marshaling sync for %s: %v", room, err)
		return
	}

	for userID, clientConn := range h.roomConnections(room) {
		if err := clientConn.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error syncing user %d in %s: %v", userID, room, err)
			h.UnregisterConn(room, userID, clientConn)
		}
	}
}

// BroadcastChat relays a chat payload to every room subscriber except
// the sender. The relay never echoes a broadcast back to its origin;
// senders render their own copy locally.
func (h *Hub) BroadcastChat(room string, senderID uint, payload ChatPayload) {
	data, err := json.Marshal(envelope{Type: EventChat, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling chat for %s: %v", room, err)
		return
	}

	for userID, clientConn := range h.roomConnections(room) {
		if userID == senderID {
			continue
		}
		if err := clientConn.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending chat to user %d in %s: %v", userID, room, err)
			h.UnregisterConn(room, userID, clientConn)
		}
	}
}

// roomConnections snapshots the room's connections so writes happen
// outside the lock.
func (h *Hub) roomConnections(room string) map[uint]*ClientConnection {
	h.mux.RLock()
	defer h.mux.RUnlock()

	conns := make(map[uint]*ClientConnection, len(h.rooms[room]))
	for id, conn := range h.rooms[room] {
		conns[id] = conn
	}
	return conns
}

// RoomCount returns the number of subscribers in a room.
func (h *Hub) RoomCount(room string) int {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return len(h.rooms[room])
}

// MarkPong records connection liveness for the health checker.
func (h *Hub) MarkPong(room string, userID uint) {
	h.mux.Lock()
	if conns, ok := h.rooms[room]; ok {
		if client, exists := conns[userID]; exists {
			client.LastPong = time.Now()
		}
	}
	h.mux.Unlock()
}

// pingRoutine sends periodic ping frames to keep the connection alive.
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for user %d in %s: %v", client.UserID, client.Room, err)
				h.UnregisterConn(client.Room, client.UserID, client)
				return
			}
		}
	}
}

// connectionHealthChecker drops connections whose pong went silent, so
// their presence entries leave the roster instead of lingering.
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mux.RLock()
		dead := make([]*ClientConnection, 0)
		now := time.Now()
		for _, conns := range h.rooms {
			for _, client := range conns {
				if now.Sub(client.LastPong) > h.pongTimeout {
					dead = append(dead, client)
				}
			}
		}
		h.mux.RUnlock()

		for _, client := range dead {
			log.Printf("Removing dead connection for user %d in %s (no pong received)", client.UserID, client.Room)
			h.UnregisterConn(client.Room, client.UserID, client)
		}
	}
}
