package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ProJug/Grunt/internal/app/user"
)

func TestCreatePrivateGroup(t *testing.T) {
	s := newTestStore(t)

	g, err := s.CreatePrivateGroup("book club", "alice")
	if err != nil {
		t.Fatalf("CreatePrivateGroup: %v", err)
	}

	if g.ID == "" {
		t.Error("group must get an id")
	}
	if g.Owner != "alice" {
		t.Errorf("owner = %q, want alice", g.Owner)
	}
	if diff := cmp.Diff([]string{"alice"}, g.Members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	if g.Roles["alice"] != user.RoleOwner {
		t.Errorf("owner role = %q, want %q", g.Roles["alice"], user.RoleOwner)
	}

	groups := s.PrivateGroupsFor("alice")
	if len(groups) != 1 || groups[0].ID != g.ID {
		t.Errorf("PrivateGroupsFor(alice) = %+v", groups)
	}
	if got := s.PrivateGroupsFor("bob"); len(got) != 0 {
		t.Errorf("bob belongs to no groups, got %+v", got)
	}
}

func TestInviteToGroup(t *testing.T) {
	s := newTestStore(t)

	g, err := s.CreatePrivateGroup("book club", "alice")
	if err != nil {
		t.Fatalf("CreatePrivateGroup: %v", err)
	}

	if _, err := s.InviteToGroup("missing", "alice", "bob"); err != ErrNotFound {
		t.Errorf("unknown group: want ErrNotFound, got %v", err)
	}

	updated, err := s.InviteToGroup(g.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("InviteToGroup: %v", err)
	}
	if !updated.IsMember("bob") {
		t.Error("invitee must become a member")
	}
	if updated.Roles["bob"] != user.RoleMember {
		t.Errorf("invitee role = %q, want %q", updated.Roles["bob"], user.RoleMember)
	}

	if _, err := s.InviteToGroup(g.ID, "alice", "bob"); err != ErrAlreadyMember {
		t.Errorf("repeat invite: want ErrAlreadyMember, got %v", err)
	}

	// A plain member cannot invite.
	if _, err := s.InviteToGroup(g.ID, "bob", "carol"); err != ErrRoleInsufficient {
		t.Errorf("member invite: want ErrRoleInsufficient, got %v", err)
	}
}

func TestKickFromGroup(t *testing.T) {
	s := newTestStore(t)

	g, err := s.CreatePrivateGroup("book club", "alice")
	if err != nil {
		t.Fatalf("CreatePrivateGroup: %v", err)
	}
	if _, err := s.InviteToGroup(g.ID, "alice", "bob"); err != nil {
		t.Fatalf("InviteToGroup: %v", err)
	}

	// The owner is immune even before the actor's role is considered.
	if _, err := s.KickFromGroup(g.ID, "bob", "alice"); err != ErrOwnerImmune {
		t.Errorf("kick owner: want ErrOwnerImmune, got %v", err)
	}

	if _, err := s.KickFromGroup(g.ID, "bob", "bob"); err != ErrRoleInsufficient {
		t.Errorf("member kick: want ErrRoleInsufficient, got %v", err)
	}

	if _, err := s.KickFromGroup(g.ID, "alice", "carol"); err != ErrNotMember {
		t.Errorf("kick outsider: want ErrNotMember, got %v", err)
	}

	updated, err := s.KickFromGroup(g.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("KickFromGroup: %v", err)
	}
	if updated.IsMember("bob") {
		t.Error("kicked user must no longer be a member")
	}
	if _, ok := updated.Roles["bob"]; ok {
		t.Error("kicked user must lose their role entry")
	}
}

func TestPrivateGroupMessages(t *testing.T) {
	s := newTestStore(t)

	g, err := s.CreatePrivateGroup("book club", "alice")
	if err != nil {
		t.Fatalf("CreatePrivateGroup: %v", err)
	}

	if got := s.PrivateGroupMessages(g.ID); len(got) != 0 {
		t.Errorf("fresh group log must be empty, got %+v", got)
	}

	want := []GroupMessage{
		{Username: "alice", Message: "welcome", Timestamp: 1},
		{Username: "alice", Message: "chapter one", Timestamp: 2},
	}
	for _, m := range want {
		if err := s.AppendPrivateGroupMessage(g.ID, m); err != nil {
			t.Fatalf("AppendPrivateGroupMessage: %v", err)
		}
	}

	if diff := cmp.Diff(want, s.PrivateGroupMessages(g.ID)); diff != "" {
		t.Errorf("group log mismatch (-want +got):\n%s", diff)
	}
}
