/*
Package store owns every persisted collection of the Grunt server: accounts,
public posts, banned IPs, the global group chat, private groups, DM histories
and thread replies. Each collection is one pretty-printed JSON document that
is fully rewritten on every change.

The store is a best-effort flat-file layer, not a storage engine: saves
overwrite whole files without atomic renames, and a corrupt or missing file
is silently reset to its default value on load. One mutex serializes every
operation, so two mutations never interleave mid-handler.
*/
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ProJug/Grunt/internal/app/user"
	"github.com/ProJug/Grunt/internal/pkg/logx"
)

// Sentinel errors returned by store operations. Handlers translate these
// into the errs code space.
var (
	ErrNotFound         = errors.New("store: not found")
	ErrExists           = errors.New("store: already exists")
	ErrNoAccess         = errors.New("store: no access")
	ErrRoleInsufficient = errors.New("store: role insufficient")
	ErrAlreadyMember    = errors.New("store: already a member")
	ErrNotMember        = errors.New("store: not a member")
	ErrOwnerImmune      = errors.New("store: owner cannot be kicked")
)

// Collection file names under the data directory.
const (
	usersFile         = "users.json"
	messagesFile      = "messages.json"
	ipBanFile         = "banned_ips.json"
	groupChatsFile    = "group_chats.json"
	privateGroupsFile = "private_groups.json"

	// privateGroupMsgsDir holds one message log per private group.
	privateGroupMsgsDir = "privateGroupMessages"
)

// Store owns the in-memory collections and their backing files. All methods
// are safe for concurrent use; a single mutex serializes every operation.
type Store struct {
	mu      sync.Mutex
	dataDir string

	users         map[string]*user.User
	posts         []Post
	bannedIPs     map[string]struct{}
	groupChats    []GroupMessage
	privateGroups []*PrivateGroup
}

// New opens (or initializes) the data directory and loads every shared
// collection into memory. DM histories, thread replies, and private-group
// message logs are loaded per file on demand.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, privateGroupMsgsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
		users:   make(map[string]*user.User),
	}

	s.users = loadJSON(s.path(usersFile), map[string]*user.User{})
	s.posts = loadJSON(s.path(messagesFile), []Post{})
	s.groupChats = loadJSON(s.path(groupChatsFile), []GroupMessage{})
	s.privateGroups = loadJSON(s.path(privateGroupsFile), []*PrivateGroup{})

	banned := loadJSON(s.path(ipBanFile), []string{})
	s.bannedIPs = make(map[string]struct{}, len(banned))
	for _, ip := range banned {
		s.bannedIPs[ip] = struct{}{}
	}

	// Normalize records written by older versions.
	for _, u := range s.users {
		if u.Followers == nil {
			u.Followers = []string{}
		}
		if u.Following == nil {
			u.Following = []string{}
		}
	}

	return s, nil
}

// path resolves a file name inside the data directory.
func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// loadJSON returns the parsed contents of path, or def when the file is
// missing, empty, or corrupt. In those cases def is immediately written
// back: the file self-heals, at the cost of discarding unreadable content.
func loadJSON[T any](path string, def T) T {
	raw, err := os.ReadFile(path)
	if err == nil && len(raw) > 0 {
		var value T
		if jsonErr := json.Unmarshal(raw, &value); jsonErr == nil {
			return value
		}
		logx.Warn("Discarding unreadable JSON file and resetting to default.", "path", path)
	}

	if saveErr := saveJSON(path, def); saveErr != nil {
		logx.Error(saveErr, "Failed to initialize JSON file", "path", path)
	}
	return def
}

// saveJSON serializes value pretty-printed and overwrites the entire file.
// There is no atomic rename; a crash mid-write can corrupt the file.
func saveJSON(path string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
