package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type envelope struct {
	recipient uuid.UUID
	message   []byte
}

// Hub fans events out to connected clients. A nil recipient addresses every client.
type Hub struct {
	clients     map[*Client]bool
	byPrincipal map[uuid.UUID]map[*Client]bool
	outbound    chan envelope
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	logger      *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		byPrincipal: make(map[uuid.UUID]map[*Client]bool),
		outbound:    make(chan envelope, 1024),
		register:    make(chan *Client, 128),
		unregister:  make(chan *Client, 128),
		logger:      logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			set := h.byPrincipal[client.principal]
			if set == nil {
				set = make(map[*Client]bool)
				h.byPrincipal[client.principal] = set
			}
			set[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logf("WS connected | principal=%s role=%s total_clients=%d", client.principal, client.role, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.remove(client)
			total := len(h.clients)
			h.mutex.Unlock()
			h.logf("WS disconnected | principal=%s total_clients=%d", client.principal, total)

		case env := <-h.outbound:
			targets := h.targets(env.recipient)
			var slow []*Client
			for _, client := range targets {
				select {
				case client.send <- env.message:
				default:
					slow = append(slow, client)
				}
			}
			if len(slow) > 0 {
				h.mutex.Lock()
				for _, client := range slow {
					h.remove(client)
				}
				h.mutex.Unlock()
			}
			if env.recipient == uuid.Nil {
				h.logf("WS broadcast | clients=%d", len(targets))
			}
		}
	}
}

func (h *Hub) targets(recipient uuid.UUID) []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if recipient == uuid.Nil {
		out := make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			out = append(out, c)
		}
		return out
	}
	set := h.byPrincipal[recipient]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// remove must be called with the write lock held.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if set := h.byPrincipal[client.principal]; set != nil {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byPrincipal, client.principal)
		}
	}
	close(client.send)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		h.remove(c)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

func (h *Hub) send(recipient uuid.UUID, message []byte) {
	if h == nil {
		return
	}
	select {
	case h.outbound <- envelope{recipient: recipient, message: message}:
	default:
		h.logf("WS message dropped | reason=buffer_full recipient=%s", recipient)
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
