/*
Package chat contains the core logic of the real-time chat backend: the
presence registry, typing tracker, broadcast hub, the per-connection session
coordinator, and the WebSocket client pumps.

This file defines the wire envelope and the payloads exchanged with clients.
*/
package chat

import (
	"time"

	"rtchat/internal/app/store"
)

// EventType discriminates the JSON envelopes on the wire.
type EventType string

// Server-to-client events.
const (
	EventUserJoined EventType = "userJoined"
	EventUserLeft   EventType = "userLeft"
	EventNewMessage EventType = "newMessage"
	EventSendError  EventType = "sendMessageError"
	EventUserList   EventType = "users"
	EventTyping     EventType = "typing"
)

// Client-to-server actions.
const (
	ActionJoin        EventType = "join"
	ActionSendMessage EventType = "sendMessage"
	ActionTyping      EventType = "typing"
)

// Event is the envelope for every frame sent to a client.
type Event struct {
	Type    EventType `json:"event"`
	Payload any       `json:"payload,omitempty"`
}

// PeerPayload announces a peer joining or leaving, carrying the persisted
// system message that recorded the transition.
type PeerPayload struct {
	User      string    `json:"user"`
	Message   string    `json:"message"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// MessagePayload is the authoritative stored message broadcast to every
// connection, the sender included.
type MessagePayload struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

// ErrorPayload is delivered back to the originating connection only.
type ErrorPayload struct {
	Error string `json:"error"`
}

// TypingPayload relays a typing signal to peers.
type TypingPayload struct {
	Email    string `json:"email"`
	IsTyping bool   `json:"isTyping"`
}

// TextPayload is the body of a sendMessage action.
type TextPayload struct {
	Text string `json:"text"`
}

// TypingRequest is the body of a typing action.
type TypingRequest struct {
	IsTyping bool `json:"isTyping"`
}

// newMessagePayload projects a stored message onto the wire shape.
func newMessagePayload(m store.Message) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Text:      m.Text,
		Sender:    m.Sender,
		Timestamp: m.CreatedAt,
		Type:      m.Type,
	}
}

// newPeerPayload builds a join/leave announcement from the persisted system message.
func newPeerPayload(email string, m store.Message) PeerPayload {
	return PeerPayload{
		User:      email,
		Message:   m.Text,
		ID:        m.ID,
		Timestamp: m.CreatedAt,
	}
}
