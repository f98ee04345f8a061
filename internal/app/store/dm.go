package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// dmSafeName strips everything but word characters and dots from a
// client-supplied DM file name before it reaches the filesystem.
var dmSafeName = regexp.MustCompile(`[^a-zA-Z0-9_.]`)

// dmFileName resolves the history file for an unordered user pair. The two
// usernames are sorted into canonical order so (a,b) and (b,a) share one
// file regardless of who initiates.
func dmFileName(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("dm_%s_%s.json", a, b)
}

// DMHistory returns the full message history between two users.
func (s *Store) DMHistory(a, b string) []DMEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return loadJSON(s.path(dmFileName(a, b)), []DMEntry{})
}

// AppendDM appends one direct message to its pair history.
func (s *Store) AppendDM(e DMEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(dmFileName(e.From, e.To))
	history := loadJSON(path, []DMEntry{})
	history = append(history, e)
	return saveJSON(path, history)
}

// RecentDMs builds the inbox summary for username: one entry per DM history
// naming them, most recent first.
func (s *Store) RecentDMs(username string) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return []Conversation{}
	}

	conversations := []Conversation{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "dm_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if !strings.Contains(name, username) {
			continue
		}

		history := loadJSON(s.path(name), []DMEntry{})
		if len(history) == 0 {
			continue
		}

		last := history[len(history)-1]
		other := last.From
		if last.From == username {
			other = last.To
		}

		conversations = append(conversations, Conversation{
			Username:  other,
			Timestamp: last.Timestamp,
			Preview:   last.Message,
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].Timestamp > conversations[j].Timestamp
	})
	return conversations
}

// DMFileInfo describes one DM history file for the admin inventory.
type DMFileInfo struct {
	File  string `json:"file"`
	Label string `json:"label"`
}

// DMFiles lists every DM history file with a human-readable pair label.
func (s *Store) DMFiles() []DMFileInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return []DMFileInfo{}
	}

	files := []DMFileInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "dm_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		label := strings.TrimSuffix(strings.TrimPrefix(name, "dm_"), ".json")
		label = strings.Replace(label, "_", " ⇄ ", 1)

		files = append(files, DMFileInfo{File: name, Label: label})
	}
	return files
}

// ReadDMFile returns the history stored in a DM file referenced by its
// sanitized name. Only dm_-prefixed files inside the data directory are
// reachable. Returns ErrNotFound for anything else.
func (s *Store) ReadDMFile(name string) ([]DMEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	safe := dmSafeName.ReplaceAllString(name, "")
	if !strings.HasPrefix(safe, "dm_") || !strings.HasSuffix(safe, ".json") {
		return nil, ErrNotFound
	}

	path := filepath.Join(s.dataDir, safe)
	if _, err := os.Stat(path); err != nil {
		return nil, ErrNotFound
	}

	return loadJSON(path, []DMEntry{}), nil
}
