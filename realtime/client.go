package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Client is one live websocket session.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// NewClient wraps an upgraded connection. The caller is responsible for
// registering it with the hub and starting WritePump.
func NewClient(hub *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		id:   id,
	}
}

// ID returns the connection id.
func (c *Client) ID() string {
	return c.id
}

// Send queues one outbound text frame for this session only. Frames queued
// by one session's turns are delivered in queue order.
func (c *Client) Send(text string) {
	defer func() {
		// The send channel is closed by the hub on unregister; a late timer
		// firing after disconnect must not crash the process.
		_ = recover()
	}()
	select {
	case c.send <- []byte(text):
	default:
	}
}

// ReadText blocks for the next inbound text frame.
func (c *Client) ReadText() (string, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WritePump drains the send channel to the connection and keeps it alive
// with pings. Run it in its own goroutine, one per client.
func (c *Client) WritePump() {
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
