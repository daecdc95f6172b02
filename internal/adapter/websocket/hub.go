// Package websocket carries the two realtime surfaces: the dispatcher monitor
// feed and the phone media stream bridge.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub fans turn events out to connected dispatcher dashboards. Each client is
// scoped to its tenant; events for other tenants never reach it.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound events to fan out.
	events chan event

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex
}

type event struct {
	tenantID string
	payload  []byte
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound messages.
	send chan []byte
	// Tenant scope for event filtering.
	tenantID string
}

func NewHub() *Hub {
	return &Hub{
		events:     make(chan event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case ev := <-h.events:
			h.mu.Lock()
			for client := range h.clients {
				if client.tenantID != ev.tenantID {
					continue
				}
				select {
				case client.send <- ev.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for every dashboard watching the tenant. The payload
// is expected to carry a tenant_id field; events without one are dropped.
func (h *Hub) Publish(payload []byte) {
	var envelope struct {
		TenantID string `json:"tenant_id"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.TenantID == "" {
		return
	}

	select {
	case h.events <- event{tenantID: envelope.TenantID, payload: payload}:
	default:
		// Dashboards are best-effort; drop rather than block the publisher.
	}
}

// AddClient registers a dashboard connection scoped to one tenant and blocks
// until the connection closes.
func (h *Hub) AddClient(conn *websocket.Conn, tenantID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), tenantID: tenantID}
	client.hub.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The monitor feed is push-only; reads only service control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Flush any queued events into the same frame batch.
		n := len(c.send)
		for i := 0; i < n; i++ {
			w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
}
