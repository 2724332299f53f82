// Package websocket pushes refresh events to connected browsers. The
// server broadcasts an event when the report batch changes and when an
// analysis run completes; clients re-fetch through the REST API rather
// than receiving payloads over the socket.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pickpulse/internal/infrastructure"
	"pickpulse/pkg/contracts/events"
)

// Hub tracks connected clients and fans broadcast events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	stop    sync.Once

	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewHub creates a hub. The metrics may be nil; the batch CLI runs
// without an exporter.
func NewHub(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
		metrics:    metrics,
	}
}

// Start launches the hub loop. Calling Start twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop shuts the hub down and closes every client connection.
func (h *Hub) Stop() {
	h.stop.Do(func() { close(h.quit) })
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues an event for every connected client. Broadcasts
// never block the caller; when the queue is full the event is dropped
// with a warning.
func (h *Hub) Broadcast(eventType events.MessageType, data interface{}) {
	payload, err := json.Marshal(events.NewEvent(eventType, data))
	if err != nil {
		h.logger.Error("failed to marshal broadcast event",
			slog.String("event_type", string(eventType)),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast queue full, dropping event",
			slog.String("event_type", string(eventType)))
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.shutdownClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.addConnectedClients(1)
			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			h.greet(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			close(client.send)
			count := len(h.clients)
			h.mu.Unlock()

			h.addConnectedClients(-1)
			h.logger.Info("client unregistered",
				slog.String("client_id", client.id),
				slog.Duration("connected_for", time.Since(client.connectedAt)),
				slog.Int("total_clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; skip rather than stall the loop.
					h.logger.Warn("client send buffer full, skipping",
						slog.String("client_id", client.id))
				}
			}
		}
	}
}

// greet sends the connected event directly to one client.
func (h *Hub) greet(client *Client) {
	event := events.NewEvent(events.MessageTypeConnected,
		map[string]interface{}{"client_id": client.id})
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
	}
}

func (h *Hub) shutdownClients() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]bool)
	h.mu.Unlock()

	for _, client := range clients {
		close(client.send)
		client.conn.Close()
	}
	h.addConnectedClients(-int64(len(clients)))

	h.logger.Info("hub stopped", slog.Int("closed_clients", len(clients)))
}

func (h *Hub) addConnectedClients(delta int64) {
	if h.metrics == nil || delta == 0 {
		return
	}
	h.metrics.ConnectedClients.Add(context.Background(), delta)
}
