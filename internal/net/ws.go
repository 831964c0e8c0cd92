package net

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"philoworld/server/internal/telemetry"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 64
	maxMessageLen = 1 << 20 // 1MB
)

// wsClient adapts a websocket connection to the room.Client contract. Sends
// go through a bounded queue drained by a single writer goroutine; when the
// queue is full the payload is dropped so a slow client never stalls a
// room's event loop.
type wsClient struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	quit   chan struct{}
	reason string
	logger telemetry.Logger

	closeOnce sync.Once
}

func newWSClient(id string, conn *websocket.Conn, logger telemetry.Logger) *wsClient {
	return &wsClient{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		quit:   make(chan struct{}),
		logger: logger,
	}
}

func (c *wsClient) SessionID() string { return c.id }

// Send queues a payload, dropping it when the client cannot keep up.
func (c *wsClient) Send(payload []byte) {
	select {
	case c.send <- payload:
	case <-c.quit:
	default:
		c.logger.Warnf("ws: dropping message for slow client %s", c.id)
	}
}

// Close stops the writer after it delivers a close frame with the reason.
func (c *wsClient) Close(reason string) {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.quit)
	})
}

// writePump is the sole writer on the connection.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.quit:
			// Flush whatever is still queued, e.g. a join rejection,
			// before the close frame drops the connection.
			for {
				select {
				case payload := <-c.send:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.reason)
					c.conn.WriteMessage(websocket.CloseMessage, message)
					return
				}
			}
		}
	}
}
