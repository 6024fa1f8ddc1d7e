package http

import (
	"context"
	"sync"
	"time"

	"golang-stock-watcher/internal/watcher/event"

	"github.com/gorilla/websocket"
)

const defaultWriteTimeout = 5 * time.Second

// Hub broadcasts events to connected websocket clients. A client that cannot
// take a message within the write timeout is dropped so the event consumer
// never stalls behind it.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*websocket.Conn]struct{}
	writeTimeout time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*websocket.Conn]struct{}),
		writeTimeout: defaultWriteTimeout,
	}
}

func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handle lets the hub act as an event consumer handler.
func (h *Hub) Handle(_ context.Context, ev event.Event) error {
	h.BroadcastJSON(ev)
	return nil
}

func (h *Hub) BroadcastJSON(v any) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			h.RemoveClient(conn)
			continue
		}
		if err := conn.WriteJSON(v); err != nil {
			h.RemoveClient(conn)
		}
	}
}
