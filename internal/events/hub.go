package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrHubClosed = errors.New("event hub is not running")

// Publisher delivers a session event to every stream it addresses.
type Publisher interface {
	Publish(ctx context.Context, event dto.SessionEvent) error
}

// Client is one open session event stream.
type Client struct {
	ID        string
	UserID    uuid.UUID
	SessionID uuid.UUID
	Send      chan []byte
}

// NewClient returns a client with a buffered send queue.
func NewClient(userID, sessionID uuid.UUID) *Client {
	return &Client{
		ID:        uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		Send:      make(chan []byte, 16),
	}
}

// Wants reports whether event is addressed to this client.
func (c *Client) Wants(event dto.SessionEvent) bool {
	if c.UserID != event.UserID {
		return false
	}
	return event.SessionID == uuid.Nil || event.SessionID == c.SessionID
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan dto.SessionEvent
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan dto.SessionEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast until ctx is cancelled, then
// closes every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event dto.SessionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to encode session event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !client.Wants(event) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Warn().Str("client_id", client.ID).Str("type", event.Type).Msg("session stream buffer full, event dropped")
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues event for the streams connected to this process.
func (h *Hub) Publish(ctx context.Context, event dto.SessionEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
