package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProJug/Grunt/internal/app/user"
)

// GetUser returns a copy of the account record for username.
func (s *Store) GetUser(username string) (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return user.User{}, false
	}
	return *u, true
}

// UserExists reports whether username has an account.
func (s *Store) UserExists(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[username]
	return ok
}

// Usernames returns every registered username.
func (s *Store) Usernames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	return names
}

// Users returns a copy of every account record keyed by username.
func (s *Store) Users() map[string]user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]user.User, len(s.users))
	for name, u := range s.users {
		out[name] = *u
	}
	return out
}

// CreateUser registers a new account. The administrator flag is derived from
// adminName (case-insensitive match). Returns ErrExists on a taken username.
func (s *Store) CreateUser(username, passwordHash, adminName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return ErrExists
	}

	s.users[username] = user.New(passwordHash, username, adminName)
	return s.saveUsersLocked()
}

// UpdateUser applies fn to the account record under the store lock and
// persists the users collection. Returns ErrNotFound for unknown accounts.
func (s *Store) UpdateUser(username string, fn func(*user.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return ErrNotFound
	}

	fn(u)
	return s.saveUsersLocked()
}

// Follow makes current follow target, maintaining both sides of the graph.
// Following an already-followed user is a no-op, matching the form surface.
func (s *Store) Follow(current, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cu, ok := s.users[current]
	if !ok {
		return ErrNotFound
	}
	tu, ok := s.users[target]
	if !ok {
		return ErrNotFound
	}

	if contains(cu.Following, target) {
		return nil
	}

	cu.Following = append(cu.Following, target)
	tu.Followers = append(tu.Followers, current)
	return s.saveUsersLocked()
}

// Unfollow removes the follow edge between current and target on both sides.
func (s *Store) Unfollow(current, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cu, ok := s.users[current]
	if !ok {
		return ErrNotFound
	}
	tu, ok := s.users[target]
	if !ok {
		return ErrNotFound
	}

	cu.Following = remove(cu.Following, target)
	tu.Followers = remove(tu.Followers, current)
	return s.saveUsersLocked()
}

// SetBanned flips the account ban flag for target.
func (s *Store) SetBanned(target string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[target]
	if !ok {
		return ErrNotFound
	}

	u.Banned = banned
	return s.saveUsersLocked()
}

// DeleteUser removes the account and cascades: the target disappears from
// every other user's follower/following sets, their authored public posts
// are dropped, and every DM history file naming them is deleted (both
// filename orderings).
func (s *Store) DeleteUser(target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[target]; !ok {
		return ErrNotFound
	}

	delete(s.users, target)

	for _, u := range s.users {
		u.Followers = remove(u.Followers, target)
		u.Following = remove(u.Following, target)
	}

	filtered := s.posts[:0]
	for _, p := range s.posts {
		if p.Username != target {
			filtered = append(filtered, p)
		}
	}
	s.posts = filtered

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("failed to scan data directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "dm_"+target+"_") || strings.HasSuffix(name, "_"+target+".json") {
			if rmErr := os.Remove(filepath.Join(s.dataDir, name)); rmErr != nil {
				return fmt.Errorf("failed to remove DM history %s: %w", name, rmErr)
			}
		}
	}

	if err := saveJSON(s.path(messagesFile), s.posts); err != nil {
		return err
	}
	return s.saveUsersLocked()
}

// saveUsersLocked persists the users collection. Callers hold s.mu.
func (s *Store) saveUsersLocked() error {
	return saveJSON(s.path(usersFile), s.users)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
