// Package hub broadcasts the element stream produced by printer sessions to
// connected renderer clients over WebSocket. Grounded on the teacher's
// internal/handler/event_bus.go (buffered-channel fan-out, drop-on-full) and
// websocket_handler.go (client read/write pump), trimmed down from a
// two-way device-command channel to a one-way render feed: this service
// emulates a printer, it doesn't drive one, so there is nothing for a
// renderer to command.
package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"escpos-printer-service/internal/escpos"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 256
)

// Message is the JSON envelope delivered to renderer clients.
type Message struct {
	SessionID string           `json:"session_id"`
	Elements  []escpos.Element `json:"elements"`
	Timestamp time.Time        `json:"timestamp"`
}

// Hub fans out published element batches to every connected client.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[string]*client

	events chan Message
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// New builds a Hub. Call Run in its own goroutine before accepting clients.
func New(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger.With(zap.String("component", "element-hub")),
		clients: make(map[string]*client),
		events:  make(chan Message, 1000),
	}
}

// Run drains the internal event queue and fans each message out to every
// connected client, dropping for any client whose send buffer is full
// rather than blocking the whole hub on one slow renderer.
func (h *Hub) Run() {
	for msg := range h.events {
		payload, err := json.Marshal(msg)
		if err != nil {
			h.logger.Error("failed to marshal element batch", zap.Error(err))
			continue
		}

		h.mu.RLock()
		for _, c := range h.clients {
			select {
			case c.send <- payload:
			default:
				h.logger.Warn("renderer client send buffer full, dropping batch", zap.String("client", c.id))
			}
		}
		h.mu.RUnlock()
	}
}

// Publish implements server.ElementSink: it queues a batch for broadcast,
// never blocking the calling session on a slow or absent renderer.
func (h *Hub) Publish(sessionID string, elements []escpos.Element) {
	msg := Message{SessionID: sessionID, Elements: elements, Timestamp: time.Now()}
	select {
	case h.events <- msg:
	default:
		h.logger.Warn("element hub queue full, dropping batch", zap.String("session", sessionID))
	}
}

// ServeHTTP upgrades an HTTP request to a WebSocket renderer connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, clientSendSize)}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Info("renderer client connected", zap.String("client", c.id))

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
	h.logger.Info("renderer client disconnected", zap.String("client", c.id))
}

// ClientCount reports the number of connected renderer clients, for health
// reporting.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
