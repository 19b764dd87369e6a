package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client wraps one websocket connection. ID doubles as the socket id stored
// on the user document while the connection lives.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{ID: id, conn: conn, send: make(chan []byte, sendBuffer)}
}

// enqueue drops the frame when the client cannot keep up; presence refreshes
// are cheap to miss and messages are recoverable over REST.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
	}
}

// writePump owns all writes on the connection, including pings. The send
// channel is never closed; closing the underlying conn makes the next write
// fail and ends the pump, so a late enqueue can never panic.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
