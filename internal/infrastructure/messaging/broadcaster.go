// Package messaging provides real-time event broadcasting for the admin live feed.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// LiveEvent is a summary of ingested activity pushed to dashboard subscribers.
type LiveEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	Page      string    `json:"page,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Broadcaster fans live events out to connected admin dashboard sockets.
// Slow clients are dropped rather than allowed to block the hub.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
	logger  *logging.ChanneledLogger
}

func NewBroadcaster(logger *logging.ChanneledLogger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]bool),
		logger:  logger,
	}
}

// Register attaches a websocket connection and starts its writer pump.
func (b *Broadcaster) Register(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}

	b.mu.Lock()
	b.clients[c] = true
	count := len(b.clients)
	b.mu.Unlock()

	b.logger.Live().Info("Live feed client connected", "clients", count)

	go b.writePump(c)
	go b.readPump(c)
}

// Publish sends an event to all connected clients. Clients whose send
// buffer is full are disconnected.
func (b *Broadcaster) Publish(event LiveEvent) {
	event.Timestamp = time.Now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Live().Error("Failed to marshal live event", "error", err.Error())
		return
	}

	b.mu.RLock()
	var stale []*client
	for c := range b.clients {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	b.mu.RUnlock()

	for _, c := range stale {
		b.logger.Live().Warn("Dropping slow live feed client")
		b.remove(c)
	}
}

// ClientCount returns the number of connected subscribers.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
	c.conn.Close()
}

func (b *Broadcaster) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				b.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				b.remove(c)
				return
			}
		}
	}
}

// readPump drains incoming frames so pong handling works and closes the
// client when the peer goes away.
func (b *Broadcaster) readPump(c *client) {
	defer b.remove(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
