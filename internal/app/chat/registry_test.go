package chat

import (
	"encoding/json"
	"testing"
)

func newTestClient(name, ip string) *Client {
	return NewClient(nil, nil, name, ip)
}

// recvEvent pops one queued frame from the client and decodes it. Fails the
// test when the queue is empty.
func recvEvent(t *testing.T, c *Client) map[string]any {
	t.Helper()

	select {
	case raw, ok := <-c.send:
		if !ok {
			t.Fatal("send queue closed")
		}
		var event map[string]any
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("invalid frame %s: %v", raw, err)
		}
		return event
	default:
		t.Fatal("no frame queued")
		return nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()

	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame queued: %s", raw)
	default:
	}
}

func TestRegisterUnregister(t *testing.T) {
	reg := NewRegistry()
	c1 := newTestClient("alice", "10.0.0.1")
	c2 := newTestClient("alice", "10.0.0.2")

	reg.Register(c1)
	reg.Register(c2)
	if got := reg.ConnectionsFor("alice"); got != 2 {
		t.Errorf("ConnectionsFor = %d, want 2", got)
	}

	reg.Unregister(c1)
	if got := reg.ConnectionsFor("alice"); got != 1 {
		t.Errorf("ConnectionsFor after unregister = %d, want 1", got)
	}

	// Unregister is idempotent.
	reg.Unregister(c1)
	reg.Unregister(c2)
	if got := reg.ConnectionsFor("alice"); got != 0 {
		t.Errorf("ConnectionsFor after full unregister = %d, want 0", got)
	}
}

func TestSendToTargetsEveryConnection(t *testing.T) {
	reg := NewRegistry()
	a1 := newTestClient("alice", "10.0.0.1")
	a2 := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.2")
	reg.Register(a1)
	reg.Register(a2)
	reg.Register(bob)

	reg.SendTo("alice", NewNotification(SubTypeMention, "bob"))

	for _, c := range []*Client{a1, a2} {
		event := recvEvent(t, c)
		if event["type"] != TypeNotification || event["subType"] != SubTypeMention {
			t.Errorf("unexpected event %v", event)
		}
	}
	assertNoEvent(t, bob)

	// No connections bound: silently a no-op.
	reg.SendTo("carol", NewClearChatEvent())
}

func TestBroadcast(t *testing.T) {
	reg := NewRegistry()
	alice := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.2")
	reg.Register(alice)
	reg.Register(bob)

	reg.Broadcast(NewClearChatEvent())

	for _, c := range []*Client{alice, bob} {
		event := recvEvent(t, c)
		if event["type"] != TypeClearChat {
			t.Errorf("unexpected event %v", event)
		}
	}
}

func TestEnqueueAfterShutdownDrops(t *testing.T) {
	c := newTestClient("alice", "10.0.0.1")
	c.shutdown()

	if c.enqueue([]byte("{}")) {
		t.Error("enqueue after shutdown must report a drop")
	}
	// A second shutdown must not panic.
	c.shutdown()
}

func TestCloseAllFor(t *testing.T) {
	reg := NewRegistry()
	a1 := newTestClient("alice", "10.0.0.1")
	a2 := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.2")
	reg.Register(a1)
	reg.Register(a2)
	reg.Register(bob)

	reg.CloseAllFor("alice", "You have been banned.")

	if !a1.closed || !a2.closed {
		t.Error("every connection of the target must be shut down")
	}
	if bob.closed {
		t.Error("other users' connections must stay open")
	}
}

func TestCloseAllFromIP(t *testing.T) {
	reg := NewRegistry()
	alice := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.1")
	carol := newTestClient("carol", "10.0.0.9")
	reg.Register(alice)
	reg.Register(bob)
	reg.Register(carol)

	reg.CloseAllFromIP("10.0.0.1", "Your address has been banned.")

	if !alice.closed || !bob.closed {
		t.Error("every connection from the banned address must be shut down")
	}
	if carol.closed {
		t.Error("connections from other addresses must stay open")
	}
}
