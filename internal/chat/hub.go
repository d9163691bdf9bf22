package chat

import (
	"fmt"
	"sync"
)

// Hub relays chat messages between connected clients. Rooms are keyed
// by tenant database name plus chat id, so two tenants' chats never
// share a room even if their chat ids collide.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates an empty relay hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func roomKey(dbName string, chatID uint) string {
	return fmt.Sprintf("%s/%d", dbName, chatID)
}

func (h *Hub) join(c *Client, chatID uint) {
	key := roomKey(c.dbName, chatID)
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[key]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[key] = room
	}
	room[c] = struct{}{}
	c.joined[key] = struct{}{}
}

// broadcast delivers payload to every member of the room except the
// sender. Slow clients are dropped rather than blocking the relay.
func (h *Hub) broadcast(sender *Client, chatID uint, payload []byte) {
	key := roomKey(sender.dbName, chatID)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[key] {
		if c == sender {
			continue
		}
		select {
		case c.send <- payload:
		default:
			go c.close()
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key := range c.joined {
		if room, ok := h.rooms[key]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, key)
			}
		}
	}
}

// RoomSize reports the number of clients in one chat room.
func (h *Hub) RoomSize(dbName string, chatID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomKey(dbName, chatID)])
}
