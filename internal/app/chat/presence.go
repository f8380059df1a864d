package chat

import (
	"sync"

	"rtchat/internal/app/identity"
)

// Registry is the in-memory authoritative map of active connections to
// identities. At most one entry exists per connection id; multiple connections
// may share the same identity (same user in two tabs), each tracked
// independently. All mutation is serialized behind a mutex held only for the
// in-memory update, never across storage calls.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]identity.Identity
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]identity.Identity),
	}
}

// Register binds the identity to the connection id, replacing any previous
// binding for the same id.
func (r *Registry) Register(connID string, id identity.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[connID] = id
}

// Unregister removes the connection's entry and returns the identity it was
// bound to. The second return value is false when the connection was not
// registered (e.g. it never joined).
func (r *Registry) Unregister(connID string) (identity.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.conns[connID]
	if ok {
		delete(r.conns, connID)
	}
	return id, ok
}

// Get returns the identity bound to the connection id.
func (r *Registry) Get(connID string) (identity.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.conns[connID]
	return id, ok
}

// Emails projects the registry onto the online user list broadcast to
// clients: one entry per live connection, in no particular order. A user
// with two open connections appears twice; the list is deliberately
// per-connection, not per-identity.
func (r *Registry) Emails() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emails := make([]string, 0, len(r.conns))
	for _, id := range r.conns {
		emails = append(emails, id.Email)
	}
	return emails
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
