package chat

import (
	"encoding/json"
	"testing"
)

// frame mirrors the wire envelope for decoding in tests.
type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// drainFrames collects every frame currently queued for a subscriber.
func drainFrames(t *testing.T, ch <-chan []byte) []frame {
	t.Helper()

	var frames []frame
	for {
		select {
		case raw, ok := <-ch:
			if !ok {
				return frames
			}
			var f frame
			if err := json.Unmarshal(raw, &f); err != nil {
				t.Fatalf("invalid frame %q: %v", raw, err)
			}
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func eventNames(frames []frame) []string {
	names := make([]string, 0, len(frames))
	for _, f := range frames {
		names = append(names, f.Event)
	}
	return names
}

func TestHubToAll(t *testing.T) {
	h := NewHub()
	ch1 := h.Attach("c1")
	ch2 := h.Attach("c2")

	h.ToAll(Event{Type: EventUserList, Payload: []string{"a@x.com"}})

	for name, ch := range map[string]<-chan []byte{"c1": ch1, "c2": ch2} {
		frames := drainFrames(t, ch)
		if len(frames) != 1 || frames[0].Event != string(EventUserList) {
			t.Fatalf("%s received %v, want one %s event", name, eventNames(frames), EventUserList)
		}
	}
}

func TestHubToAllExcept(t *testing.T) {
	h := NewHub()
	ch1 := h.Attach("c1")
	ch2 := h.Attach("c2")

	h.ToAllExcept("c1", Event{Type: EventTyping, Payload: TypingPayload{Email: "a@x.com", IsTyping: true}})

	if frames := drainFrames(t, ch1); len(frames) != 0 {
		t.Fatalf("excluded subscriber received %v, want none", eventNames(frames))
	}
	if frames := drainFrames(t, ch2); len(frames) != 1 {
		t.Fatalf("peer received %v, want one typing event", eventNames(frames))
	}
}

func TestHubToOne(t *testing.T) {
	h := NewHub()
	ch1 := h.Attach("c1")
	ch2 := h.Attach("c2")

	h.ToOne("c1", Event{Type: EventSendError, Payload: ErrorPayload{Error: "Message too long"}})

	if frames := drainFrames(t, ch1); len(frames) != 1 {
		t.Fatalf("target received %v, want one event", eventNames(frames))
	}
	if frames := drainFrames(t, ch2); len(frames) != 0 {
		t.Fatalf("bystander received %v, want none", eventNames(frames))
	}

	// Sending to a detached connection must not panic.
	h.ToOne("missing", Event{Type: EventSendError, Payload: ErrorPayload{Error: "x"}})
}

func TestHubDetachClosesQueue(t *testing.T) {
	h := NewHub()
	ch := h.Attach("c1")

	h.Detach("c1")

	if _, ok := <-ch; ok {
		t.Fatal("queue still open after Detach")
	}
	if got := h.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}

	// Detaching twice is a no-op.
	h.Detach("c1")

	// Fan-out after detach reaches nobody and must not panic.
	h.ToAll(Event{Type: EventUserList, Payload: []string{}})
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	ch := h.Attach("c1")

	for i := 0; i < subscriberQueueSize+10; i++ {
		h.ToAll(Event{Type: EventUserList, Payload: []string{}})
	}

	if got := len(drainFrames(t, ch)); got != subscriberQueueSize {
		t.Fatalf("queued frames = %d, want %d (overflow dropped)", got, subscriberQueueSize)
	}
}
