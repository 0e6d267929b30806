package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Live-reload event names.
const (
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Event is pushed to every live-reload client.
type Event struct {
	ID       string    `json:"id"`
	Event    string    `json:"event"`
	Scenario string    `json:"scenario"`
	At       time.Time `json:"at"`
}

func newEvent(kind, name string) Event {
	return Event{ID: uuid.NewString(), Event: kind, Scenario: name, At: time.Now().UTC()}
}

// hub fans events out to websocket clients. Clients that cannot keep up are
// dropped rather than slowing down publishers.
type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan Event
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan Event)}
}

func (h *hub) register(conn *websocket.Conn) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) broadcast(evt Event) {
	var slow []*websocket.Conn
	h.mu.RLock()
	for conn, ch := range h.clients {
		select {
		case ch <- evt:
		default:
			slow = append(slow, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range slow {
		h.unregister(conn)
		_ = conn.Close()
	}
}

func encodeEvent(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}
