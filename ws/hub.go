package ws

import (
	"log"
	"sync"
)

// Hub owns the live-connection routing state: the set of connections, the
// per-user registry for targeted delivery, and the room map keyed by
// conversation id. It is an injected service object with no package state, so
// tests construct isolated hubs.
//
// Each room carries its own lock; delivering within a room is serialized by
// that lock, which preserves per-room message order without serializing
// unrelated rooms against each other.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Client]bool
	users map[string]map[*Client]bool

	roomsMu sync.RWMutex
	rooms   map[string]*room
}

type room struct {
	id      string
	mu      sync.Mutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*Client]bool),
		users: make(map[string]map[*Client]bool),
		rooms: make(map[string]*room),
	}
}

// RegisterClient adds a connection. Anonymous connections (empty user id)
// receive public broadcasts but are never targets of per-user delivery.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
	if c.userID != "" {
		if _, ok := h.users[c.userID]; !ok {
			h.users[c.userID] = make(map[*Client]bool)
		}
		h.users[c.userID][c] = true
	}
	log.Printf("client registered: %q", c.userID)
}

// UnregisterClient removes the connection from the registry and from every
// room it joined, and closes its send channel.
func (h *Hub) UnregisterClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.conns[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c)
	if conns, ok := h.users[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.users, c.userID)
		}
	}
	c.closeSend()
	h.mu.Unlock()

	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	for id, r := range h.rooms {
		r.mu.Lock()
		delete(r.clients, c)
		empty := len(r.clients) == 0
		r.mu.Unlock()
		if empty {
			delete(h.rooms, id)
		}
	}
}

// JoinRoom subscribes the connection to a conversation room. Authorization is
// the gate's concern; the hub only does bookkeeping. roomsMu stays held until
// the client is inserted, otherwise a concurrent leave of the room's last
// member could delete the room and strand the joiner in a detached map.
func (h *Hub) JoinRoom(c *Client, roomID string) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	r, ok := h.rooms[roomID]
	if !ok {
		r = &room{id: roomID, clients: make(map[*Client]bool)}
		h.rooms[roomID] = r
	}
	r.mu.Lock()
	r.clients[c] = true
	r.mu.Unlock()
}

// LeaveRoom removes the connection from a room. Leaving a room that was never
// joined is a no-op.
func (h *Hub) LeaveRoom(c *Client, roomID string) {
	h.roomsMu.Lock()
	r, ok := h.rooms[roomID]
	if !ok {
		h.roomsMu.Unlock()
		return
	}
	r.mu.Lock()
	delete(r.clients, c)
	empty := len(r.clients) == 0
	r.mu.Unlock()
	if empty {
		delete(h.rooms, roomID)
	}
	h.roomsMu.Unlock()
}

// InRoom reports whether the connection is currently subscribed to the room.
func (h *Hub) InRoom(c *Client, roomID string) bool {
	h.roomsMu.RLock()
	r, ok := h.rooms[roomID]
	h.roomsMu.RUnlock()
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients[c]
}

// SendToRoom delivers a payload to the room's current subscribers only.
// Holding the room lock for the whole delivery keeps per-room ordering
// identical for every subscriber.
func (h *Hub) SendToRoom(roomID string, payload []byte) {
	h.roomsMu.RLock()
	r, ok := h.rooms[roomID]
	h.roomsMu.RUnlock()
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.trySend(payload)
	}
}

// SendToUser delivers a payload to every live connection of the user, if any.
func (h *Hub) SendToUser(userID string, payload []byte) {
	if userID == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		c.trySend(payload)
	}
}

// Broadcast delivers a payload to every connection, anonymous ones included.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.trySend(payload)
	}
}
