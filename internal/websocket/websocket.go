// Package websocket pushes draw results and tool status to connected pages.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/models"
	"github.com/abrezinsky/tinydecisions/internal/services"
)

// MsgStatus carries services.Status to clients
const MsgStatus = "status"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // LAN app, pages may be opened by IP or hostname
	},
}

// Hub fans encoded messages out to every connected page. Only the run loop
// writes to or closes a client's send channel.
type Hub struct {
	log    logger.Logger
	status services.StatusServicer

	clients       map[*Client]struct{}
	broadcast     chan []byte
	register      chan *Client
	unregister    chan *Client
	statusRequest chan *Client
	quit          chan struct{}
	stopOnce      sync.Once

	mu    sync.RWMutex
	count int
}

// Client is one page connected to the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that reports status from status
func New(log logger.Logger, status services.StatusServicer) *Hub {
	return &Hub{
		log:           log,
		status:        status,
		clients:       make(map[*Client]struct{}),
		broadcast:     make(chan []byte, sendBuffer),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		statusRequest: make(chan *Client, sendBuffer),
		quit:          make(chan struct{}),
	}
}

// Start runs the hub loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// Stop ends the hub loop and disconnects every client. Broadcasts after Stop
// are dropped.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount()
			h.log.Debug("Client connected", "total_clients", len(h.clients))
			// New pages learn which tools are mid-draw
			h.sendStatus(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.log.Debug("Client disconnected", "total_clients", len(h.clients))
			}

		case client := <-h.statusRequest:
			if _, ok := h.clients[client]; ok {
				h.sendStatus(client)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		}
	}
}

// deliver queues message for client, dropping clients that cannot keep up
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		h.log.Warn("Dropping slow websocket client")
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.setCount()
	close(client.send)
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

func (h *Hub) sendStatus(client *Client) {
	message, err := encode(MsgStatus, h.status.Status())
	if err != nil {
		h.log.Error("Failed to encode status", "error", err)
		return
	}
	h.deliver(client, message)
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	return json.Marshal(models.WSMessage{Type: msgType, Payload: payload})
}

// BroadcastMessage encodes the message once and queues it for every client.
// Implements services.Broadcaster.
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	message, err := encode(msgType, payload)
	if err != nil {
		h.log.Error("Failed to encode broadcast", "type", msgType, "error", err)
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// readPump handles status requests until the connection fails
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		// A page that missed updates can ask for the current status
		if msg.Type == MsgStatus {
			select {
			case c.hub.statusRequest <- c:
			default:
			}
		}
	}
}

// writePump writes queued messages and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and registers the connection
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// WatchStatus polls the busy flags every interval and broadcasts the status
// whenever it changes, until ctx is cancelled
func (h *Hub) WatchStatus(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := h.status.Status()
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Status watcher stopped")
			return
		case <-ticker.C:
			current := h.status.Status()
			if !reflect.DeepEqual(current, last) {
				h.BroadcastMessage(MsgStatus, current)
				last = current
			}
		}
	}
}
