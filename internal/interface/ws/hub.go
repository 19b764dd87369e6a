package ws

import (
	"encoding/json"
	"sync"
)

// Hub tracks live connections and their room membership. All fields are
// guarded by mu; broadcasts enqueue onto each client's send channel and drop
// the frame if the client is backed up.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // socket id -> client
	rooms   map[string]map[string]*Client // room id -> socket id -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister drops the client from the hub and from every room group it had
// joined. It returns the room ids the client was in.
func (h *Hub) Unregister(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c.ID)
	joined := []string{}
	for roomID, members := range h.rooms {
		if _, ok := members[c.ID]; ok {
			delete(members, c.ID)
			joined = append(joined, roomID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	return joined
}

func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomID] = members
	}
	members[c.ID] = c
}

func (h *Hub) Leave(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// BroadcastRoom sends the event to every client joined to the room.
func (h *Hub) BroadcastRoom(roomID, event string, data any) {
	frame, err := marshalEvent(event, data)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomID] {
		c.enqueue(frame)
	}
}

// SendTo targets a single connection; used for connect_error.
func (h *Hub) SendTo(socketID, event string, data any) {
	frame, err := marshalEvent(event, data)
	if err != nil {
		return
	}
	h.mu.RLock()
	c, ok := h.clients[socketID]
	h.mu.RUnlock()
	if ok {
		c.enqueue(frame)
	}
}

func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
