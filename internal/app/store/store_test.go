package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewResetsCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, usersFile), []byte("{{{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := len(s.Users()); got != 0 {
		t.Errorf("expected empty user map after corrupt load, got %d entries", got)
	}

	// The file on disk must be valid JSON again.
	raw, err := os.ReadFile(filepath.Join(dir, usersFile))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Errorf("users file not healed to valid JSON: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)

	if err := s.CreateUser("alice", "hash", "admin"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser("alice", "hash", "admin"); err != ErrExists {
		t.Errorf("duplicate CreateUser: want ErrExists, got %v", err)
	}

	if err := s.CreateUser("admin", "hash", "admin"); err != nil {
		t.Fatalf("CreateUser admin: %v", err)
	}
	u, ok := s.GetUser("admin")
	if !ok || !u.IsAdmin {
		t.Errorf("admin-named account should carry the admin flag, got %+v ok=%v", u, ok)
	}

	regular, _ := s.GetUser("alice")
	if regular.IsAdmin {
		t.Error("regular account must not be admin")
	}
}

func TestFollowUnfollowSymmetry(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "alice", "bob")

	if err := s.Follow("alice", "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	// Idempotent.
	if err := s.Follow("alice", "bob"); err != nil {
		t.Fatalf("repeat Follow: %v", err)
	}

	alice, _ := s.GetUser("alice")
	bob, _ := s.GetUser("bob")
	if diff := cmp.Diff([]string{"bob"}, alice.Following); diff != "" {
		t.Errorf("alice.Following mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"alice"}, bob.Followers); diff != "" {
		t.Errorf("bob.Followers mismatch (-want +got):\n%s", diff)
	}

	if err := s.Unfollow("alice", "bob"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	alice, _ = s.GetUser("alice")
	bob, _ = s.GetUser("bob")
	if len(alice.Following) != 0 || len(bob.Followers) != 0 {
		t.Errorf("unfollow must strip both sides, got following=%v followers=%v",
			alice.Following, bob.Followers)
	}
}

func TestSetBanned(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "alice")

	if err := s.SetBanned("alice", true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}
	u, _ := s.GetUser("alice")
	if !u.Banned {
		t.Error("expected banned flag set")
	}

	if err := s.SetBanned("alice", false); err != nil {
		t.Fatalf("SetBanned false: %v", err)
	}
	u, _ = s.GetUser("alice")
	if u.Banned {
		t.Error("expected banned flag cleared")
	}

	if err := s.SetBanned("ghost", true); err != ErrNotFound {
		t.Errorf("SetBanned unknown user: want ErrNotFound, got %v", err)
	}
}

func TestIPBans(t *testing.T) {
	s := newTestStore(t)

	if s.IsIPBanned("10.0.0.1") {
		t.Fatal("fresh store must have no banned addresses")
	}
	if err := s.BanIP("10.0.0.1"); err != nil {
		t.Fatalf("BanIP: %v", err)
	}
	if !s.IsIPBanned("10.0.0.1") {
		t.Error("address should be banned")
	}
	if err := s.UnbanIP("10.0.0.1"); err != nil {
		t.Fatalf("UnbanIP: %v", err)
	}
	if s.IsIPBanned("10.0.0.1") {
		t.Error("address should be unbanned")
	}
}

func TestDeleteUserCascade(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "alice", "bob", "carol")

	mustFollow(t, s, "alice", "bob")
	mustFollow(t, s, "bob", "carol")

	mustAppendPost(t, s, Post{ID: "p1", Username: "alice", Message: "one", Timestamp: 1})
	mustAppendPost(t, s, Post{ID: "p2", Username: "bob", Message: "two", Timestamp: 2})

	if err := s.AppendDM(DMEntry{From: "alice", To: "bob", Message: "hi", Timestamp: 3}); err != nil {
		t.Fatalf("AppendDM: %v", err)
	}
	if err := s.AppendDM(DMEntry{From: "alice", To: "carol", Message: "yo", Timestamp: 4}); err != nil {
		t.Fatalf("AppendDM: %v", err)
	}

	if err := s.DeleteUser("bob"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if s.UserExists("bob") {
		t.Error("deleted account still exists")
	}

	// bob's posts are gone, alice's survive.
	posts := s.Posts()
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Errorf("expected only alice's post to survive, got %+v", posts)
	}

	// bob is stripped from every relationship list.
	alice, _ := s.GetUser("alice")
	carol, _ := s.GetUser("carol")
	if len(alice.Following) != 0 {
		t.Errorf("alice should no longer follow anyone, got %v", alice.Following)
	}
	if len(carol.Followers) != 0 {
		t.Errorf("carol should have no followers left, got %v", carol.Followers)
	}

	// bob's DM history is erased, the unrelated one survives.
	if got := s.DMHistory("alice", "bob"); len(got) != 0 {
		t.Errorf("expected bob's DM history erased, got %+v", got)
	}
	if got := s.DMHistory("alice", "carol"); len(got) != 1 {
		t.Errorf("unrelated DM history must survive, got %+v", got)
	}

	if err := s.DeleteUser("ghost"); err != ErrNotFound {
		t.Errorf("DeleteUser unknown: want ErrNotFound, got %v", err)
	}
}

func TestPostsAndClear(t *testing.T) {
	s := newTestStore(t)

	mustAppendPost(t, s, Post{ID: "a1b2c3d4e", Username: "alice", Message: "hello", Timestamp: 1})

	post, ok := s.GetPost("a1b2c3d4e")
	if !ok {
		t.Fatal("GetPost: post not found")
	}
	if post.Message != "hello" {
		t.Errorf("unexpected post %+v", post)
	}
	if _, ok := s.GetPost("missing"); ok {
		t.Error("GetPost must miss on unknown id")
	}

	if err := s.ClearPosts(); err != nil {
		t.Fatalf("ClearPosts: %v", err)
	}
	if got := s.Posts(); len(got) != 0 {
		t.Errorf("expected empty feed after clear, got %+v", got)
	}
}

func TestThreadReplies(t *testing.T) {
	s := newTestStore(t)

	if got := s.ThreadReplies("p1"); len(got) != 0 {
		t.Errorf("fresh thread must be empty, got %+v", got)
	}

	want := []Reply{
		{From: "alice", Message: "first", Timestamp: 1},
		{From: "bob", Message: "second", Timestamp: 2},
	}
	for _, r := range want {
		if err := s.AppendReply("p1", r); err != nil {
			t.Fatalf("AppendReply: %v", err)
		}
	}

	if diff := cmp.Diff(want, s.ThreadReplies("p1")); diff != "" {
		t.Errorf("thread replies mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupChat(t *testing.T) {
	s := newTestStore(t)

	want := []GroupMessage{
		{Username: "alice", Message: "hi all", Timestamp: 1},
		{Username: "bob", Message: "hello", Timestamp: 2},
	}
	for _, m := range want {
		if err := s.AppendGroupChatMessage(m); err != nil {
			t.Fatalf("AppendGroupChatMessage: %v", err)
		}
	}

	if diff := cmp.Diff(want, s.GroupChatMessages()); diff != "" {
		t.Errorf("group chat mismatch (-want +got):\n%s", diff)
	}
}

func TestReloadFromDisk(t *testing.T) {
	dir := t.TempDir()

	s1, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mustCreate(t, s1, "alice")
	mustAppendPost(t, s1, Post{ID: "p1", Username: "alice", Message: "persisted", Timestamp: 1})

	s2, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !s2.UserExists("alice") {
		t.Error("user lost across reload")
	}
	if got := s2.Posts(); len(got) != 1 || got[0].Message != "persisted" {
		t.Errorf("posts lost across reload, got %+v", got)
	}
}

func mustCreate(t *testing.T, s *Store, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := s.CreateUser(name, "hash", "admin"); err != nil {
			t.Fatalf("CreateUser(%s): %v", name, err)
		}
	}
}

func mustFollow(t *testing.T, s *Store, current, target string) {
	t.Helper()
	if err := s.Follow(current, target); err != nil {
		t.Fatalf("Follow(%s, %s): %v", current, target, err)
	}
}

func mustAppendPost(t *testing.T, s *Store, p Post) {
	t.Helper()
	if err := s.AppendPost(p); err != nil {
		t.Fatalf("AppendPost(%s): %v", p.ID, err)
	}
}
