package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// Client is one live connection. userID is bound once at connect time and is
// immutable for the connection's lifetime; it is empty for anonymous
// connections.
type Client struct {
	hub    *Hub
	gate   *SessionGate
	conn   *websocket.Conn
	send   chan []byte
	userID string

	sendMu sync.Mutex
	closed bool
}

// trySend queues a payload without blocking. Payloads for a slow or closed
// connection are dropped.
func (c *Client) trySend(payload []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Printf("dropping payload for slow client %q", c.userID)
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { _ = c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error: %v", err)
			}
			break
		}
		var env Event
		if err := json.Unmarshal(raw, &env); err != nil {
			c.trySend([]byte(`{"type":"error","error":"invalid_json"}`))
			continue
		}
		switch env.Type {
		case EventJoinConversation:
			// Membership is re-checked on every attempt; refusal is silent.
			if c.gate.CanJoin(c.userID, env.ConversationID) {
				c.hub.JoinRoom(c, env.ConversationID)
			}
		case EventLeaveConversation:
			c.hub.LeaveRoom(c, env.ConversationID)
		default:
			c.trySend([]byte(`{"type":"error","error":"unsupported_type"}`))
		}
	}
}

// write sends one frame under the write deadline.
func (c *Client) write(messageType int, payload []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, payload)
}

// writePump drains the send channel onto the connection and keeps the peer
// alive with pings. It is the connection's only writer.
func (c *Client) writePump() {
	ticker := time.NewTicker((pongWait * 9) / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// hub closed the channel, say goodbye
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve starts the pumps and blocks until the connection closes.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}
