/*
Package chat contains the core logic of the real-time chat backend.

This file defines the Hub, the broadcast fan-out that delivers events to all,
all-but-one, or a single connected client. Delivery is best-effort: a slow
subscriber whose queue is full has the event dropped rather than blocking the
fan-out, and nothing is buffered for clients that are not connected.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"rtchat/internal/pkg/logx"
)

// subscriberQueueSize buffers outbound frames per connection.
const subscriberQueueSize = 256

// Hub tracks the outbound queue of every connected client and fans events out
// to them. Attach/Detach are serialized with the fan-out so a queue is never
// written after it has been closed.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan []byte
	logger zerolog.Logger
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]chan []byte),
		logger: logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Attach creates the outbound queue for the connection and returns its
// receive side, consumed by the connection's write pump.
func (h *Hub) Attach(connID string) <-chan []byte {
	ch := make(chan []byte, subscriberQueueSize)

	h.mu.Lock()
	h.subs[connID] = ch
	h.mu.Unlock()

	return ch
}

// Detach removes and closes the connection's outbound queue. The closed
// channel signals the write pump to send a close frame and exit.
func (h *Hub) Detach(connID string) {
	h.mu.Lock()
	ch, ok := h.subs[connID]
	if ok {
		delete(h.subs, connID)
		close(ch)
	}
	h.mu.Unlock()
}

// ToAll delivers the event to every connected client.
func (h *Hub) ToAll(ev Event) {
	h.fanOut(ev, "")
}

// ToAllExcept delivers the event to every connected client except the one
// identified by exceptID.
func (h *Hub) ToAllExcept(exceptID string, ev Event) {
	h.fanOut(ev, exceptID)
}

// ToOne delivers the event to a single connection, if it is still attached.
func (h *Hub) ToOne(connID string, ev Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(ev.Type)).Msg("Error marshaling event.")
		return
	}

	h.mu.RLock()
	ch, ok := h.subs[connID]
	if ok {
		h.enqueue(connID, ch, frame, ev.Type)
	}
	h.mu.RUnlock()
}

// Len returns the number of attached connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

// fanOut marshals the event once and enqueues it sequentially for every
// subscriber, skipping exceptID when non-empty.
func (h *Hub) fanOut(ev Event, exceptID string) {
	frame, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(ev.Type)).Msg("Error marshaling event.")
		return
	}

	h.mu.RLock()
	for connID, ch := range h.subs {
		if connID == exceptID {
			continue
		}
		h.enqueue(connID, ch, frame, ev.Type)
	}
	h.mu.RUnlock()
}

// enqueue performs a non-blocking send; a full queue drops the frame.
func (h *Hub) enqueue(connID string, ch chan []byte, frame []byte, evType EventType) {
	select {
	case ch <- frame:
	default:
		h.logger.Warn().
			Str("conn_id", connID).
			Str("event", string(evType)).
			Msg("Subscriber queue full, dropping event.")
	}
}
