package web

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a single websocket connection to the hub.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	Send     chan []byte
	ID       uint8
	Metadata struct {
		RemoteAddr string
		UserAgent  string
		Username   string
	}
	avgLatency  atomic.Uint32 // milliseconds
	connectedAt time.Time
}

// ReadPump reads messages from the client until the connection closes,
// passing settings to the hub and controls to the player.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case System:
			c.hub.configure(c, message[1:])
		case Closing:
			return
		default:
			c.hub.player.control(c, message)
		}
	}
}

// WritePump writes queued messages to the client until the hub closes
// Send or a write fails.
func (c *Client) WritePump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	for message := range c.Send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}
		c.sampleLatency()
	}

	// hub closed the connection
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// trySend queues message without blocking, returning false if the
// client's queue is full.
func (c *Client) trySend(message []byte) bool {
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// sampleLatency folds the connection's current round trip time into
// the average latency.
func (c *Client) sampleLatency() {
	tcp, ok := c.conn.UnderlyingConn().(*net.TCPConn)
	if !ok {
		return
	}
	rtt, err := roundTrip(tcp)
	if err != nil {
		return
	}

	avg := c.avgLatency.Load()
	c.avgLatency.Store((avg*9 + uint32(rtt.Milliseconds())) / 10)
}
