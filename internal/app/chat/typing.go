package chat

import "sync"

// Tracker is the ephemeral set of emails currently signaling active typing.
// Nothing here is persisted; entries disappear on stop-typing or disconnect.
// Set and Clear are idempotent.
type Tracker struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		active: make(map[string]struct{}),
	}
}

// Set marks or unmarks the email as typing.
func (t *Tracker) Set(email string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isTyping {
		t.active[email] = struct{}{}
	} else {
		delete(t.active, email)
	}
}

// Clear removes the email from the typing set, used on disconnect.
func (t *Tracker) Clear(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, email)
}

// IsTyping reports whether the email is currently marked as typing.
func (t *Tracker) IsTyping(email string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.active[email]
	return ok
}

// Len returns the number of identities currently marked as typing.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active)
}
