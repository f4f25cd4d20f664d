package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active session-event subscriptions and routes auth-state
// events to the connections of the affected user.
type Hub struct {
	// Registered clients (userID -> connections)
	clients map[string]map[*Client]bool

	// Outbound session events
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

// Message is a session event addressed to a specific user's connections.
type Message struct {
	UserID string
	Data   interface{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Session subscriber connected: %s (total users: %d)", client.UserID, h.userCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("🔴 [WEBSOCKET] Session subscriber disconnected: %s", client.UserID)

		case message := <-h.broadcast:
			h.mu.RLock()
			conns := h.clients[message.UserID]
			if len(conns) > 0 {
				data, err := json.Marshal(message.Data)
				if err != nil {
					log.Printf("❌ Failed to marshal session event: %v", err)
					h.mu.RUnlock()
					continue
				}
				for client := range conns {
					select {
					case client.send <- data:
					default:
						// Client buffer full; drop the event, the client
						// can refresh from /api/auth/status
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastToUser sends a session event to every connection of one user.
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	h.broadcast <- &Message{
		UserID: userID,
		Data:   data,
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

// IsUserConnected checks if a user has at least one open connection
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) userCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
