// Package monitoring pushes live prediction events to dashboard clients.
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"homeval/logging"
	"homeval/property"
)

// PredictionEvent is one broadcast message: the submitted record plus the
// price it produced.
type PredictionEvent struct {
	Record         property.Record `json:"record"`
	Price          float64         `json:"price"`
	FormattedPrice string          `json:"formatted_price"`
	SizeCategory   string          `json:"size_category"`
	Timestamp      time.Time       `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// FeedHub fans prediction events out to connected websocket clients. It
// is the only concurrent component of the service; request handling
// itself stays synchronous.
type FeedHub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	upgrader   websocket.Upgrader
}

func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run owns the client set until the context is cancelled.
func (h *FeedHub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client, drop it rather than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Publish queues an event for broadcast. When the hub is saturated the
// event is dropped; the feed is best-effort.
func (h *FeedHub) Publish(event PredictionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logging.L().Warn("failed to encode feed event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		logging.L().Warn("feed hub saturated, dropping event")
	}
}

// HandleWS upgrades the request and attaches the client to the hub.
func (h *FeedHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump(h *FeedHub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		// Clients only listen; discard anything they send.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
