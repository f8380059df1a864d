/*
Package chat contains the core logic of the real-time chat backend.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's lifecycle, the read and write pumps,
and dispatches inbound actions to the Coordinator.
*/
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"rtchat/internal/app/identity"
	"rtchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192
)

// Client represents an active WebSocket connection. The identity was resolved
// during the connection handshake and is bound to the session on the join
// action; it never changes afterwards.
type Client struct {
	// id is the opaque connection id assigned at upgrade time.
	id string

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// coordinator drives all session logic for this connection.
	coordinator *Coordinator

	// identity resolved at handshake time.
	identity identity.Identity

	// send is the outbound queue attached in the hub.
	send <-chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client and attaches its outbound queue to the hub.
func NewClient(connID string, conn *websocket.Conn, coordinator *Coordinator, id identity.Identity) *Client {
	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Str("email", id.Email).
		Logger()

	return &Client{
		id:          connID,
		conn:        conn,
		coordinator: coordinator,
		identity:    id,
		send:        coordinator.Attach(connID),
		logger:      clientLogger,
	}
}

// ReadPump reads frames from the WebSocket connection, handles heartbeats,
// and dispatches actions until the connection closes.
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
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInbound(frame)
	}
}

// cleanupOnDisconnect detaches the connection from the hub before the
// coordinator runs the disconnect sequence, so the departure broadcasts only
// reach the remaining connections.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.coordinator.Detach(c.id)
	c.coordinator.Disconnect(context.Background(), c.id)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInbound parses a raw frame and dispatches the contained action.
// A panic inside an action handler is confined to this connection.
func (c *Client) processInbound(frame []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error().Interface("panic", rec).Msg("Recovered from panic while processing inbound frame.")
		}
	}()

	var inbound struct {
		Type    EventType       `json:"event"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}

	if err := json.Unmarshal(frame, &inbound); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	ctx := context.Background()

	switch inbound.Type {
	case ActionJoin:
		var hints identity.Hints
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &hints); err != nil {
				c.logger.Warn().Err(err).Msg("Client sent invalid join payload")
				return
			}
		}
		c.coordinator.Join(ctx, c.id, c.identity, hints)

	case ActionSendMessage:
		var payload TextPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
			return
		}
		c.coordinator.Send(ctx, c.id, payload.Text)

	case ActionTyping:
		var payload TypingRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid typing payload")
			return
		}
		c.coordinator.Typing(c.id, payload.IsTyping)

	default:
		c.logger.Warn().Str("action", string(inbound.Type)).Msg("Client sent unsupported action")
	}
}

// WritePump writes frames from the outbound queue to the WebSocket connection
// and keeps the heartbeat alive.
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
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame to the connection. A closed queue makes
// it send a close frame and report termination.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
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

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePing sends the periodic heartbeat ping.
func (c *Client) writePing() bool {
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
