/*
Package chat contains the core logic of the real-time chat backend.

This file defines the Coordinator, the per-connection session logic that
reconciles identities, maintains presence, persists messages, and drives the
broadcast fan-out in the documented order.
*/
package chat

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"rtchat/internal/app/identity"
	"rtchat/internal/app/store"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
)

// MaxMessageChars is the maximum accepted message length after trimming.
const MaxMessageChars = 2000

// MessageLog is the durable, time-ordered store of chat and system messages.
type MessageLog interface {
	Append(ctx context.Context, text, sender, msgType string) (store.Message, error)
	Recent(ctx context.Context, limit int) ([]store.Message, error)
}

// UserDirectory is the keyed upsert store for user records.
type UserDirectory interface {
	UpsertOnJoin(ctx context.Context, id identity.Identity) error
	SetOffline(ctx context.Context, email string) error
}

// Coordinator orchestrates join, send, typing, and disconnect for every
// connection against the presence registry, typing tracker, message log, and
// broadcast hub. A send or typing action from a connection that never joined
// is silently dropped. Storage failures never take down a connection, let
// alone the process: they are logged and, where the contract demands it,
// surfaced to the originating connection only.
type Coordinator struct {
	registry *Registry
	typing   *Tracker
	hub      *Hub
	messages MessageLog
	users    UserDirectory
	logger   zerolog.Logger
}

// NewCoordinator wires a Coordinator with a fresh registry and typing tracker.
func NewCoordinator(hub *Hub, messages MessageLog, users UserDirectory) *Coordinator {
	return &Coordinator{
		registry: NewRegistry(),
		typing:   NewTracker(),
		hub:      hub,
		messages: messages,
		users:    users,
		logger:   logx.Logger().With().Str("component", "Coordinator").Logger(),
	}
}

// Attach creates the connection's outbound queue. It must be called before
// Join so the joining client receives its own member-list broadcast.
func (c *Coordinator) Attach(connID string) <-chan []byte {
	return c.hub.Attach(connID)
}

// Detach removes the connection's outbound queue.
func (c *Coordinator) Detach(connID string) {
	c.hub.Detach(connID)
}

// Join binds the handshake identity to the connection and grants presence.
// The handshake identity always wins; join-payload hints only fill profile
// fields an unverified identity is missing. Side effects, in order: user
// record upsert (best-effort), system message append, userJoined broadcast to
// the other clients, member-list broadcast to everyone including the joiner.
// An append failure skips both broadcasts but leaves the connection joined.
func (c *Coordinator) Join(ctx context.Context, connID string, id identity.Identity, hints identity.Hints) {
	id = mergeHints(id, hints)

	c.registry.Register(connID, id)
	c.logger.Info().Str("conn_id", connID).Str("email", id.Email).Msg("User joined.")

	if err := c.users.UpsertOnJoin(ctx, id); err != nil {
		// Presence in memory stays authoritative for the session.
		c.logger.Error().Err(err).Str("email", id.Email).Msg("Upsert user failed.")
	}

	text := fmt.Sprintf("%s joined the chat", id.Email)
	msg, err := c.messages.Append(ctx, text, store.SystemSender, store.TypeSystem)
	if err != nil {
		c.logger.Error().Err(err).Str("email", id.Email).Msg("Error saving system message.")
		return
	}

	c.hub.ToAllExcept(connID, Event{Type: EventUserJoined, Payload: newPeerPayload(id.Email, msg)})
	c.hub.ToAll(Event{Type: EventUserList, Payload: c.registry.Emails()})
}

// Send validates and persists a chat message, then broadcasts the stored
// record to every connection including the sender, so all clients render from
// the one authoritative path. Validation failures and storage failures are
// reported to the sender only; nothing is partially broadcast.
func (c *Coordinator) Send(ctx context.Context, connID string, text string) {
	id, ok := c.registry.Get(connID)
	if !ok {
		// Not yet joined; drop the action.
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.sendError(connID, errs.NewError(errs.ErrTextRequired))
		return
	}
	if utf8.RuneCountInString(text) > MaxMessageChars {
		c.sendError(connID, errs.NewError(errs.ErrTextTooLong))
		return
	}

	msg, err := c.messages.Append(ctx, text, id.Email, store.TypeMessage)
	if err != nil {
		c.logger.Error().Err(err).Str("email", id.Email).Msg("Error saving message.")
		c.sendError(connID, errs.NewError(errs.ErrStoreUnavailable))
		return
	}

	c.hub.ToAll(Event{Type: EventNewMessage, Payload: newMessagePayload(msg)})
}

// Typing updates the tracker and relays the signal to the other connections
// immediately. The server neither debounces nor coalesces; throttling is the
// client's job.
func (c *Coordinator) Typing(connID string, isTyping bool) {
	id, ok := c.registry.Get(connID)
	if !ok {
		return
	}

	c.typing.Set(id.Email, isTyping)
	c.hub.ToAllExcept(connID, Event{Type: EventTyping, Payload: TypingPayload{Email: id.Email, IsTyping: isTyping}})
}

// Disconnect removes the connection from the registry first, so the member
// list broadcast below already excludes it, then: offline upsert
// (best-effort), system message append, userLeft to the others, refreshed
// member list to everyone, and a synthetic isTyping=false so peers clear any
// stale typing indicator. A connection that never joined unwinds silently.
func (c *Coordinator) Disconnect(ctx context.Context, connID string) {
	id, ok := c.registry.Unregister(connID)
	if !ok {
		return
	}

	c.typing.Clear(id.Email)
	c.logger.Info().Str("conn_id", connID).Str("email", id.Email).Msg("User disconnected.")

	if err := c.users.SetOffline(ctx, id.Email); err != nil {
		c.logger.Error().Err(err).Str("email", id.Email).Msg("Set user offline failed.")
	}

	text := fmt.Sprintf("%s left the chat", id.Email)
	msg, err := c.messages.Append(ctx, text, store.SystemSender, store.TypeSystem)
	if err != nil {
		c.logger.Error().Err(err).Str("email", id.Email).Msg("Error saving system message.")
		return
	}

	c.hub.ToAllExcept(connID, Event{Type: EventUserLeft, Payload: newPeerPayload(id.Email, msg)})
	c.hub.ToAll(Event{Type: EventUserList, Payload: c.registry.Emails()})
	c.hub.ToAllExcept(connID, Event{Type: EventTyping, Payload: TypingPayload{Email: id.Email, IsTyping: false}})
}

// Members returns the current member list projection.
func (c *Coordinator) Members() []string {
	return c.registry.Emails()
}

// ConnectedCount returns the number of joined connections.
func (c *Coordinator) ConnectedCount() int {
	return c.registry.Len()
}

// sendError delivers a validation or storage error to the originating
// connection only.
func (c *Coordinator) sendError(connID string, cerr *errs.CustomError) {
	c.hub.ToOne(connID, Event{Type: EventSendError, Payload: ErrorPayload{Error: cerr.Message}})
}

// mergeHints fills profile fields an unverified identity is missing from the
// join payload. Verified identities ignore hints entirely.
func mergeHints(id identity.Identity, hints identity.Hints) identity.Identity {
	if id.Verified() {
		return id
	}

	if id.DisplayName == "" && hints.DisplayName != "" {
		id.DisplayName = hints.DisplayName
	}
	if id.AvatarURL == "" && hints.AvatarURL != "" {
		id.AvatarURL = hints.AvatarURL
	}
	return id
}
