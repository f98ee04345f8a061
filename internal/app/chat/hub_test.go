package chat

import (
	"testing"

	"github.com/ProJug/Grunt/internal/app/store"
)

func newTestHub(t *testing.T) (*Hub, *Registry, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	reg := NewRegistry()
	return NewHub(reg, st), reg, st
}

func mustCreateUsers(t *testing.T, st *store.Store, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := st.CreateUser(name, "hash", "admin"); err != nil {
			t.Fatalf("CreateUser(%s): %v", name, err)
		}
	}
}

func TestDispatchPublicPost(t *testing.T) {
	hub, reg, st := newTestHub(t)
	mustCreateUsers(t, st, "alice", "bob")

	alice := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.2")
	reg.Register(alice)
	reg.Register(bob)

	hub.dispatch(alice, []byte(`{"message":"hello @bob"}`))

	posts := st.Posts()
	if len(posts) != 1 || posts[0].Message != "hello @bob" || posts[0].Username != "alice" {
		t.Fatalf("unexpected stored posts %+v", posts)
	}
	if posts[0].ID == "" {
		t.Error("post must carry a generated id")
	}

	// Both connections receive the broadcast.
	for _, c := range []*Client{alice, bob} {
		event := recvEvent(t, c)
		if event["type"] != TypeMessage || event["message"] != "hello @bob" {
			t.Errorf("unexpected broadcast %v", event)
		}
	}

	// Only the mentioned user gets a notification.
	note := recvEvent(t, bob)
	if note["type"] != TypeNotification || note["subType"] != SubTypeMention || note["from"] != "alice" {
		t.Errorf("unexpected notification %v", note)
	}
	assertNoEvent(t, alice)
}

func TestDispatchEmptyPublicPostDropped(t *testing.T) {
	hub, reg, st := newTestHub(t)
	mustCreateUsers(t, st, "alice")

	alice := newTestClient("alice", "10.0.0.1")
	reg.Register(alice)

	hub.dispatch(alice, []byte(`{"message":"   "}`))

	if got := st.Posts(); len(got) != 0 {
		t.Errorf("whitespace-only post must not be stored, got %+v", got)
	}
	assertNoEvent(t, alice)
}

func TestDispatchDM(t *testing.T) {
	hub, reg, st := newTestHub(t)
	mustCreateUsers(t, st, "alice", "bob")

	alice := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.2")
	reg.Register(alice)
	reg.Register(bob)

	hub.dispatch(alice, []byte(`{"type":"dm","to":"bob","message":"psst"}`))

	history := st.DMHistory("alice", "bob")
	if len(history) != 1 || history[0].Message != "psst" {
		t.Fatalf("unexpected DM history %+v", history)
	}

	for _, c := range []*Client{alice, bob} {
		event := recvEvent(t, c)
		if event["type"] != TypeDM || event["from"] != "alice" || event["to"] != "bob" {
			t.Errorf("unexpected dm event %v", event)
		}
	}

	note := recvEvent(t, bob)
	if note["type"] != TypeNotification || note["subType"] != SubTypeDM || note["from"] != "alice" {
		t.Errorf("unexpected dm notification %v", note)
	}

	// The sender gets the dm event only, no self-notification.
	assertNoEvent(t, alice)
}

func TestDispatchDMUnknownTargetDropped(t *testing.T) {
	hub, reg, st := newTestHub(t)
	mustCreateUsers(t, st, "alice")

	alice := newTestClient("alice", "10.0.0.1")
	reg.Register(alice)

	hub.dispatch(alice, []byte(`{"type":"dm","to":"ghost","message":"anyone?"}`))

	if got := st.DMHistory("alice", "ghost"); len(got) != 0 {
		t.Errorf("DM to unknown target must not persist, got %+v", got)
	}
	assertNoEvent(t, alice)
}

func TestDispatchThreadReply(t *testing.T) {
	hub, reg, st := newTestHub(t)
	mustCreateUsers(t, st, "alice", "bob")

	alice := newTestClient("alice", "10.0.0.1")
	bob := newTestClient("bob", "10.0.0.2")
	reg.Register(alice)
	reg.Register(bob)

	hub.dispatch(alice, []byte(`{"type":"thread-reply","threadId":"p1","message":"me too"}`))

	replies := st.ThreadReplies("p1")
	if len(replies) != 1 || replies[0].From != "alice" || replies[0].Message != "me too" {
		t.Fatalf("unexpected replies %+v", replies)
	}

	for _, c := range []*Client{alice, bob} {
		event := recvEvent(t, c)
		if event["type"] != TypeThreadReply || event["threadId"] != "p1" {
			t.Errorf("unexpected thread-reply event %v", event)
		}
	}
}

func TestDispatchMalformedFrames(t *testing.T) {
	hub, reg, st := newTestHub(t)
	mustCreateUsers(t, st, "alice")

	alice := newTestClient("alice", "10.0.0.1")
	reg.Register(alice)

	// Invalid JSON and unknown kinds are dropped; the connection survives.
	hub.dispatch(alice, []byte(`{not json`))
	hub.dispatch(alice, []byte(`{"type":"teleport","message":"x"}`))

	if got := st.Posts(); len(got) != 0 {
		t.Errorf("malformed frames must not persist anything, got %+v", got)
	}
	assertNoEvent(t, alice)
	if alice.closed {
		t.Error("connection must stay open after malformed frames")
	}
}

func TestSendHistoryOnAttach(t *testing.T) {
	hub, _, st := newTestHub(t)

	seed := []store.Post{
		{ID: "p1", Username: "alice", Message: "first", Timestamp: 1},
		{ID: "p2", Username: "bob", Message: "second", Timestamp: 2},
	}
	for _, p := range seed {
		if err := st.AppendPost(p); err != nil {
			t.Fatalf("AppendPost: %v", err)
		}
	}

	alice := newTestClient("alice", "10.0.0.1")
	hub.sendHistory(alice)

	event := recvEvent(t, alice)
	if event["type"] != TypeHistory {
		t.Fatalf("unexpected event %v", event)
	}
	messages, ok := event["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Errorf("expected 2 backlog messages, got %v", event["messages"])
	}
}
