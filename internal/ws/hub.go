package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Envelope is the frame format on the realtime channel, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub keeps the registry of connected clients and their room subscriptions
// and fans broadcasts out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for roomID, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	close(c.send)
}

// Join subscribes a client to a room's broadcast group.
func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
	h.log.Infow("client joined room", "user", c.UserID, "room", roomID,
		"subscribers", len(h.rooms[roomID]))
}

// BroadcastRoom sends an event to every subscriber of the room. Clients
// whose send buffer is full are dropped.
func (h *Hub) BroadcastRoom(roomID, event string, data any) {
	frame, err := marshalEnvelope(event, data)
	if err != nil {
		h.log.Errorw("marshal broadcast", "event", event, "error", err)
		return
	}

	// Sends happen under the read lock: unregister closes the channel only
	// while holding the write lock, so a close can never race a send.
	h.mu.RLock()
	var full []*Client
	for c := range h.rooms[roomID] {
		select {
		case c.send <- frame:
		default:
			full = append(full, c)
		}
	}
	h.mu.RUnlock()

	h.evict(full)
}

// BroadcastAll sends an event to every connected client, subscribed or not.
func (h *Hub) BroadcastAll(event string, data any) {
	frame, err := marshalEnvelope(event, data)
	if err != nil {
		h.log.Errorw("marshal broadcast", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	var full []*Client
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			full = append(full, c)
		}
	}
	h.mu.RUnlock()

	h.evict(full)
}

// deliver sends one frame to a single client, dropping it if the buffer is
// full. The membership check under the lock makes a send to an already
// unregistered client a no-op instead of a panic.
func (h *Hub) deliver(c *Client, frame []byte) {
	h.mu.RLock()
	delivered := true
	registered := h.clients[c]
	if registered {
		select {
		case c.send <- frame:
		default:
			delivered = false
		}
	}
	h.mu.RUnlock()

	if !delivered {
		h.evict([]*Client{c})
	}
}

func (h *Hub) evict(clients []*Client) {
	for _, c := range clients {
		h.log.Warnw("send buffer full, dropping client", "user", c.UserID)
		h.unregister(c)
	}
}

func marshalEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
