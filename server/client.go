package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer; the feed is one-directional,
	// clients only send control frames
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Localhost daemon, same posture as the HTTP CORS policy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket subscriber to the event feed
type Client struct {
	id        string
	conn      *websocket.Conn
	server    *CorpusServer
	send      chan Event
	closeOnce sync.Once
}

// HandleWebSocket upgrades the connection and registers the client with
// the hub
func (s *CorpusServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("WebSocket upgrade failed",
			"remote", r.RemoteAddr,
			"error", err,
		)
		return
	}

	client := &Client{
		id:     uuid.NewString(),
		conn:   conn,
		server: s,
		send:   make(chan Event, ClientSendQueueSize),
	}

	s.register <- client

	s.wg.Add(2)
	go client.writePump()
	go client.readPump()
}

// close shuts the connection; safe to call from the hub and the pumps
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// readPump drains inbound frames to keep pong handling alive. The feed is
// push-only, so any payload from the client is ignored.
func (c *Client) readPump() {
	defer c.server.wg.Done()
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debugw("WebSocket read error",
					"client_id", c.id,
					"error", err,
				)
			}
			return
		}
	}
}

// writePump serializes queued events to the connection and keeps the peer
// alive with periodic pings
func (c *Client) writePump() {
	defer c.server.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.server.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.server.logger.Debugw("WebSocket write error",
					"client_id", c.id,
					"error", err,
				)
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
