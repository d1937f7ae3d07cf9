package ws

import (
	"encoding/json"
	"sync"
)

// Client is one live forum connection.
type Client struct {
	UserID   uint
	Username string
	Send     chan []byte
	mu       sync.Mutex
	closed   bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ForumRoom fans messages out to every participant connected to one
// forum.
type ForumRoom struct {
	ForumID uint
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewForumRoom(forumID uint) *ForumRoom {
	return &ForumRoom{ForumID: forumID, clients: make(map[*Client]struct{})}
}

func (r *ForumRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *ForumRoom) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *ForumRoom) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends the payload to everyone in the room except the
// sender. Slow consumers are skipped rather than blocking the room.
func (r *ForumRoom) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ForumHub holds all live forum rooms.
type ForumHub struct {
	mu    sync.RWMutex
	rooms map[uint]*ForumRoom
}

func NewForumHub() *ForumHub {
	return &ForumHub{rooms: make(map[uint]*ForumRoom)}
}

func (h *ForumHub) GetOrCreateRoom(forumID uint) *ForumRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[forumID]; ok {
		return r
	}
	r := NewForumRoom(forumID)
	h.rooms[forumID] = r
	return r
}

func (h *ForumHub) GetRoom(forumID uint) *ForumRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[forumID]
}

// RemoveRoom drops an empty room. Rooms with clients stay.
func (h *ForumHub) RemoveRoom(forumID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[forumID]; ok && r.ClientCount() == 0 {
		delete(h.rooms, forumID)
	}
}
