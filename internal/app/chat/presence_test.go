package chat

import (
	"sort"
	"sync"
	"testing"

	"rtchat/internal/app/identity"
)

func TestRegistryRegisterUnregister(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", identity.Identity{Email: "a@x.com"})

	if got := r.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}

	id, ok := r.Get("c1")
	if !ok || id.Email != "a@x.com" {
		t.Fatalf("Get(c1) = %v, %v; want a@x.com, true", id, ok)
	}

	id, ok = r.Unregister("c1")
	if !ok || id.Email != "a@x.com" {
		t.Fatalf("Unregister(c1) = %v, %v; want a@x.com, true", id, ok)
	}

	if _, ok := r.Unregister("c1"); ok {
		t.Fatal("Unregister(c1) second call reported a registered connection")
	}

	if got := r.Len(); got != 0 {
		t.Fatalf("Len() after unregister = %d, want 0", got)
	}
}

func TestRegistryEmailsKeepsDuplicateConnections(t *testing.T) {
	r := NewRegistry()

	// Same user in two tabs: the member list is per-connection, so the email
	// appears twice.
	r.Register("c1", identity.Identity{Email: "a@x.com"})
	r.Register("c2", identity.Identity{Email: "a@x.com"})
	r.Register("c3", identity.Identity{Email: "b@x.com"})

	emails := r.Emails()
	sort.Strings(emails)

	want := []string{"a@x.com", "a@x.com", "b@x.com"}
	if len(emails) != len(want) {
		t.Fatalf("Emails() = %v, want %v", emails, want)
	}
	for i := range want {
		if emails[i] != want[i] {
			t.Fatalf("Emails() = %v, want %v", emails, want)
		}
	}
}

func TestRegistryConcurrentSameEmail(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for _, connID := range []string{"c1", "c2"} {
		wg.Add(1)
		go func(connID string) {
			defer wg.Done()
			r.Register(connID, identity.Identity{Email: "a@x.com"})
		}(connID)
	}
	wg.Wait()

	if got := r.Len(); got != 2 {
		t.Fatalf("Len() after concurrent registers = %d, want 2", got)
	}

	for _, connID := range []string{"c1", "c2"} {
		if _, ok := r.Unregister(connID); !ok {
			t.Fatalf("Unregister(%s) failed, entry missing", connID)
		}
	}

	if got := r.Len(); got != 0 {
		t.Fatalf("Len() after unregisters = %d, want 0", got)
	}
}

func TestRegistryRegisterReplacesBinding(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", identity.Identity{Email: "a@x.com"})
	r.Register("c1", identity.Identity{Email: "b@x.com"})

	if got := r.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}

	id, _ := r.Get("c1")
	if id.Email != "b@x.com" {
		t.Fatalf("Get(c1).Email = %q, want b@x.com", id.Email)
	}
}
