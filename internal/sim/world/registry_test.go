package world

import "testing"

func TestSendLatestNeverBlocks(t *testing.T) {
	ch := make(chan []byte, 2)
	sendLatest(ch, []byte("1"))
	sendLatest(ch, []byte("2"))
	// Full channel: the oldest message is dropped for the newest.
	sendLatest(ch, []byte("3"))

	if got := string(<-ch); got != "2" {
		t.Fatalf("first=%q want 2", got)
	}
	if got := string(<-ch); got != "3" {
		t.Fatalf("second=%q want 3", got)
	}
}

func TestRegistryDisconnectLifecycle(t *testing.T) {
	r := newSessionRegistry()
	r.register("A1", make(chan []byte, 1))
	r.register("A2", make(chan []byte, 1))
	if r.clientCount() != 2 {
		t.Fatalf("clients=%d want 2", r.clientCount())
	}

	r.unregister("A1", 10)
	if r.clientCount() != 1 {
		t.Fatalf("clients=%d want 1", r.clientCount())
	}
	if got := r.evictable(11, 5); len(got) != 0 {
		t.Fatalf("evictable too early: %v", got)
	}
	if got := r.evictable(15, 5); len(got) != 1 || got[0] != "A1" {
		t.Fatalf("evictable=%v want [A1]", got)
	}

	// Reconnect clears the disconnect clock.
	r.register("A1", make(chan []byte, 1))
	if got := r.evictable(100, 5); len(got) != 0 {
		t.Fatalf("evictable after reconnect: %v", got)
	}

	r.drop("A1")
	if r.session("A1") != nil {
		t.Fatalf("dropped session still resolvable")
	}
}

func TestRegistrySendToUnknownAgent(t *testing.T) {
	r := newSessionRegistry()
	// Must not panic.
	r.send("A9", []byte("x"))
}
