package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mindfeed/internal/observability"
	"mindfeed/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
	maxClients     = 1000
)

// ChangeEvent is pushed to every WebSocket client after a store commits.
type ChangeEvent struct {
	Store string `json:"store"`
}

type changeClient struct {
	conn *websocket.Conn
	send chan []byte
}

// ChangeHub fans store notifications out to WebSocket clients. Delivery is
// best effort: a client whose buffer is full misses the event.
type ChangeHub struct {
	mu      sync.RWMutex
	clients map[*changeClient]struct{}
	closed  bool
	unsubs  []func()
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{clients: make(map[*changeClient]struct{})}
}

// Watch publishes an event named name whenever o changes.
func (h *ChangeHub) Watch(name string, o store.Observable) {
	unsub := o.Subscribe(func() { h.Publish(name) })
	h.mu.Lock()
	h.unsubs = append(h.unsubs, unsub)
	h.mu.Unlock()
}

// Publish queues a change event for every client without blocking.
func (h *ChangeHub) Publish(name string) {
	msg, _ := json.Marshal(ChangeEvent{Store: name})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *ChangeHub) register(c *changeClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.clients) >= maxClients {
		return false
	}
	h.clients[c] = struct{}{}
	observability.StateSubscribers.Inc()
	return true
}

func (h *ChangeHub) unregister(c *changeClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		observability.StateSubscribers.Dec()
	}
}

// Clients returns the number of connected clients.
func (h *ChangeHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// upgradeRequired rejects plain HTTP requests on the WebSocket route.
func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler serves the change stream.
func (h *ChangeHub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &changeClient{conn: conn, send: make(chan []byte, sendBuffer)}
		if !h.register(client) {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unavailable"}`))
			_ = conn.Close()
			return
		}
		go client.writePump()
		client.readPump()
		h.unregister(client)
	})
}

// readPump discards inbound frames and returns when the peer goes away.
func (c *changeClient) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *changeClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Shutdown stops watching stores and disconnects every client.
func (h *ChangeHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		observability.StateSubscribers.Dec()
	}
	h.closed = true
	return nil
}
