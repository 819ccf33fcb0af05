package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notify sends an event to every connection of recipient.
func (h *Hub) Notify(recipient uuid.UUID, eventType string, payload any) {
	if recipient == uuid.Nil {
		return
	}
	if b, ok := h.encode(eventType, payload); ok {
		h.send(recipient, b)
	}
}

func (h *Hub) Broadcast(eventType string, payload any) {
	if b, ok := h.encode(eventType, payload); ok {
		h.send(uuid.Nil, b)
	}
}

func (h *Hub) encode(eventType string, payload any) ([]byte, bool) {
	if h == nil {
		return nil, false
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logf("WS encode error | type=%s error=%v", eventType, err)
		return nil, false
	}
	return b, true
}
