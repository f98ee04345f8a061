package store

import "fmt"

// Posts returns a copy of the public post sequence in insertion order.
func (s *Store) Posts() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// GetPost returns the public post with the given id.
func (s *Store) GetPost(id string) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// AppendPost appends a public post and rewrites the full collection file.
func (s *Store) AppendPost(p Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = append(s.posts, p)
	return saveJSON(s.path(messagesFile), s.posts)
}

// ClearPosts atomically empties the in-memory and persisted post sequence.
func (s *Store) ClearPosts() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = []Post{}
	return saveJSON(s.path(messagesFile), s.posts)
}

// threadFile resolves the reply file for the thread rooted at post id.
func (s *Store) threadFile(id string) string {
	return s.path(fmt.Sprintf("thread_%s.json", id))
}

// ThreadReplies returns the ordered reply sequence for the thread rooted at
// post id. A thread that was never replied to yields an empty sequence.
func (s *Store) ThreadReplies(id string) []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	return loadJSON(s.threadFile(id), []Reply{})
}

// AppendReply appends to the thread rooted at post id, creating the thread
// lazily on first reply.
func (s *Store) AppendReply(id string, r Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replies := loadJSON(s.threadFile(id), []Reply{})
	replies = append(replies, r)
	return saveJSON(s.threadFile(id), replies)
}

// GroupChatMessages returns the global group chat log in insertion order.
func (s *Store) GroupChatMessages() []GroupMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]GroupMessage, len(s.groupChats))
	copy(out, s.groupChats)
	return out
}

// AppendGroupChatMessage appends to the global group chat log.
func (s *Store) AppendGroupChatMessage(m GroupMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groupChats = append(s.groupChats, m)
	return saveJSON(s.path(groupChatsFile), s.groupChats)
}
