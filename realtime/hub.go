package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is the registry of live concierge sessions, keyed by connection id.
// It owns no dialogue state; each session's manager lives with its
// connection handler. The hub only fans text frames out.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("session registered",
				zap.String("client", client.id), zap.Int("total", h.ClientCount()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("session unregistered",
				zap.String("client", client.id), zap.Int("remaining", h.ClientCount()))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for _, c := range h.clients {
				clients = append(clients, c)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than stall the hub.
					h.mu.Lock()
					delete(h.clients, client.id)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// Register adds a client to the registry.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the registry.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast delivers a text frame to every live session. Alerts use this
// deliberately: deal alerts go to all sessions, not just the watch owner.
func (h *Hub) Broadcast(text string) {
	h.broadcast <- []byte(text)
}

// ClientCount returns the number of live sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
