package events

import (
	"context"
	"sync"

	"xchain-backend/internal/metrics"
)

// Hub delivers order events to websocket clients. A client registered with
// an account only receives that account's orders.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*hubClient
	buffer  int
}

type hubClient struct {
	account string
	ch      chan OrderEvent
}

// NewHub creates a hub whose client queues hold buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	return &Hub{clients: make(map[string]*hubClient), buffer: buffer}
}

// Register adds a client and returns its event channel.
func (h *Hub) Register(clientID, account string) <-chan OrderEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[clientID]; ok {
		close(old.ch)
	} else {
		metrics.WebSocketClients.Inc()
	}
	c := &hubClient{account: account, ch: make(chan OrderEvent, h.buffer)}
	h.clients[clientID] = c
	return c.ch
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.ch)
		delete(h.clients, clientID)
		metrics.WebSocketClients.Dec()
	}
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish never blocks; a client whose queue is full misses the event.
func (h *Hub) Publish(_ context.Context, event OrderEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.account != "" && c.account != event.Account {
			continue
		}
		select {
		case c.ch <- event:
		default:
		}
	}
}
