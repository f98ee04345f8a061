package store

import (
	"fmt"
	"path/filepath"

	"github.com/ProJug/Grunt/internal/app/user"
	"github.com/ProJug/Grunt/internal/pkg/randx"
)

// CreatePrivateGroup registers a new invite-only group. The creator becomes
// the owner, is always a member, and carries the "owner" role.
func (s *Store) CreatePrivateGroup(name, owner string) (PrivateGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &PrivateGroup{
		ID:      randx.GroupID(),
		Name:    name,
		Owner:   owner,
		Members: []string{owner},
		Roles:   map[string]string{owner: user.RoleOwner},
	}

	s.privateGroups = append(s.privateGroups, g)
	if err := s.savePrivateGroupsLocked(); err != nil {
		return PrivateGroup{}, err
	}
	return g.clone(), nil
}

// PrivateGroupsFor returns every group username belongs to.
func (s *Store) PrivateGroupsFor(username string) []PrivateGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := []PrivateGroup{}
	for _, g := range s.privateGroups {
		if g.IsMember(username) {
			groups = append(groups, g.clone())
		}
	}
	return groups
}

// GetPrivateGroup returns the group with the given id.
func (s *Store) GetPrivateGroup(id string) (PrivateGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroupLocked(id)
	if g == nil {
		return PrivateGroup{}, false
	}
	return g.clone(), true
}

// InviteToGroup adds invitee to the group. The actor needs the owner or
// admin role; inviting an existing member fails with ErrAlreadyMember.
// Whether the invitee account exists is the caller's concern.
func (s *Store) InviteToGroup(id, actor, invitee string) (PrivateGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroupLocked(id)
	if g == nil {
		return PrivateGroup{}, ErrNotFound
	}
	if !g.CanManage(actor) {
		return PrivateGroup{}, ErrRoleInsufficient
	}
	if g.IsMember(invitee) {
		return PrivateGroup{}, ErrAlreadyMember
	}

	g.Members = append(g.Members, invitee)
	g.Roles[invitee] = user.RoleMember

	if err := s.savePrivateGroupsLocked(); err != nil {
		return PrivateGroup{}, err
	}
	return g.clone(), nil
}

// KickFromGroup removes target from the group. The actor needs the owner or
// admin role; the owner can never be kicked regardless of actor.
func (s *Store) KickFromGroup(id, actor, target string) (PrivateGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroupLocked(id)
	if g == nil {
		return PrivateGroup{}, ErrNotFound
	}
	if target == g.Owner {
		return PrivateGroup{}, ErrOwnerImmune
	}
	if !g.CanManage(actor) {
		return PrivateGroup{}, ErrRoleInsufficient
	}
	if !g.IsMember(target) {
		return PrivateGroup{}, ErrNotMember
	}

	g.Members = remove(g.Members, target)
	delete(g.Roles, target)

	if err := s.savePrivateGroupsLocked(); err != nil {
		return PrivateGroup{}, err
	}
	return g.clone(), nil
}

// PrivateGroupMessages returns the message log of the group with the given
// id. The group must exist; membership checks belong to the caller.
func (s *Store) PrivateGroupMessages(id string) []GroupMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return loadJSON(s.groupMsgsFile(id), []GroupMessage{})
}

// AppendPrivateGroupMessage appends one message to the group's log.
func (s *Store) AppendPrivateGroupMessage(id string, m GroupMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.groupMsgsFile(id)
	msgs := loadJSON(path, []GroupMessage{})
	msgs = append(msgs, m)
	return saveJSON(path, msgs)
}

func (s *Store) groupMsgsFile(id string) string {
	return filepath.Join(s.dataDir, privateGroupMsgsDir, fmt.Sprintf("%s.json", id))
}

func (s *Store) findGroupLocked(id string) *PrivateGroup {
	for _, g := range s.privateGroups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// savePrivateGroupsLocked persists the group registry. Callers hold s.mu.
func (s *Store) savePrivateGroupsLocked() error {
	return saveJSON(s.path(privateGroupsFile), s.privateGroups)
}
