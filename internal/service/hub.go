package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/ws"
)

// Subscriber receives pushed messages. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v any) error
}

// Hub fans messages out to the subscribers of one session, keyed by client id.
type Hub struct {
	subs map[string]Subscriber
	mu   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]Subscriber)}
}

// Register adds sub under clientID, replacing any previous subscriber.
func (h *Hub) Register(clientID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[clientID] = sub
}

// Unregister removes clientID only while sub is still its current subscriber,
// so a closing stale connection cannot drop its replacement.
func (h *Hub) Unregister(clientID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.subs[clientID]; ok && current == sub {
		delete(h.subs, clientID)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast sends every message to every subscriber in order. Subscribers
// that fail a write are dropped.
func (h *Hub) Broadcast(msgs ...ws.Message) {
	h.mu.RLock()
	active := make(map[string]Subscriber, len(h.subs))
	for id, sub := range h.subs {
		active[id] = sub
	}
	h.mu.RUnlock()

	for id, sub := range active {
		for _, msg := range msgs {
			if err := sub.WriteJSON(msg); err != nil {
				log.Warnf("dropping subscriber %s: %v", id, err)
				h.Unregister(id, sub)
				break
			}
		}
	}
}
