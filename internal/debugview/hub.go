package debugview

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer is the number of frames queued per client before it is dropped as too slow.
const sendBuffer = 8

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans encoded frames out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// remove is idempotent; the send channel is closed exactly once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		close(c.send)
	}
}

// Broadcast queues data for every client. Clients whose queue is full are disconnected.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		slog.Debug("dropping slow debug view client", "remote", c.conn.RemoteAddr())
		h.remove(c)
	}
}

// closeAll disconnects every client.
func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}
