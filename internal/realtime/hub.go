// Package realtime pushes game change notifications to websocket clients.
// Every mutation produces a games-updated message, followed by a game-updated
// message carrying the full record when the game still exists.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/dependencies/ids"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/game"
)

// Config holds websocket settings
type Config struct {
	// AllowedOrigins restricts browser origins; empty allows any
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConfig returns the default websocket settings
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
}

// Hub tracks websocket clients and broadcasts to all of them.
// It implements game.Notifier.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	upgrader websocket.Upgrader
	ids      ids.Generator
	logger   *slog.Logger
}

var _ game.Notifier = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(cfg Config, idGen ids.Generator, logger *slog.Logger) *Hub {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}

	return &Hub{
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     checkOrigin(allowed),
		},
		ids:    idGen,
		logger: logger.With(slog.String("component", "realtime")),
	}
}

func checkOrigin(allowed map[string]bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowed[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// ServeHTTP upgrades the request and starts the client's pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(h.ids.NewID(), conn, h)
	hello, _ := json.Marshal(Message{Type: TypeConnected, ClientID: client.id})
	h.add(client, hello)

	go client.writePump()
	go client.readPump()
}

// add registers a client and queues its first message
func (h *Hub) add(c *Client, first []byte) {
	h.mu.Lock()
	h.clients[c.id] = c
	c.enqueue(first)
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket client connected",
		slog.String("client_id", c.id),
		slog.Int("total_clients", count))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket client disconnected",
		slog.String("client_id", c.id),
		slog.Int("total_clients", count))
}

// Notify broadcasts the change described by the event
func (h *Hub) Notify(_ context.Context, event model.Event) {
	h.Broadcast(Message{Type: TypeGamesUpdated})

	if event.Game == nil || event.Type == model.EventGameDeleted {
		return
	}
	state := response.GameFromModel(event.Game)
	h.Broadcast(Message{Type: TypeGameUpdated, ID: string(event.GameID), State: &state})
}

// Broadcast sends a message to every client. Clients whose buffers are full miss it.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode websocket message", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.enqueue(data) {
			h.logger.Warn("websocket message dropped - client buffer full",
				slog.String("client_id", c.id))
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}
