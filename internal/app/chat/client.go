/*
This file defines the Client struct, representing one live realtime
connection bound to an authenticated username. It manages the connection
lifecycle and the read/write pump loops.
*/
package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ProJug/Grunt/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// WsCloseCodeModerated is a custom WebSocket Close Code (4000-4999
	// range) signaling that the session was terminated by moderation.
	WsCloseCodeModerated = 4002
)

// Client represents one live realtime connection and its bound identity.
type Client struct {
	// hub is the single event loop this connection feeds.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// username the connection is bound to, fixed at upgrade time.
	username string

	// ip is the originating address, used for IP-ban force-closes.
	ip string

	// send is the buffered queue of outbound frames.
	send chan []byte

	// mu guards closed so enqueue never races the channel close.
	mu     sync.Mutex
	closed bool

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client bound to username.
func NewClient(hub *Hub, conn *websocket.Conn, username, ip string) *Client {
	clientLogger := logx.Logger().With().
		Str("username", username).
		Logger()

	return &Client{
		hub:      hub,
		conn:     conn,
		username: username,
		ip:       ip,
		send:     make(chan []byte, 256),
		logger:   clientLogger,
	}
}

// Username returns the bound username.
func (c *Client) Username() string {
	return c.username
}

// ReadPump reads frames from the connection, handles heartbeats, and feeds
// every frame to the hub. It performs cleanup when the connection closes.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.hub.Route(c, messageBytes)
	}
}

// cleanupOnDisconnect runs when ReadPump terminates for any reason.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Detach(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued frames to the connection and keeps the heartbeat
// alive. It terminates when the send channel closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued frame. Returns false when the
// WritePump loop should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. Returns false on write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue queues a marshaled frame for delivery. A full or already-closed
// queue drops the frame: delivery is fire-and-forget.
func (c *Client) enqueue(raw []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- raw:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping event")
		return false
	}
}

// Kick closes the connection with a moderation close frame, then shuts
// down the send queue so WritePump terminates.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeModerated).
		Str("reason", reason).
		Msg("Force-closing connection.")

	if c.conn != nil {
		closeMessage := websocket.FormatCloseMessage(WsCloseCodeModerated, reason)

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
			c.logger.Debug().Err(err).Msg("Failed to send close frame.")
		}
	}

	c.shutdown()
}

// shutdown closes the send channel exactly once.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
