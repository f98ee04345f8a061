package store

import "github.com/ProJug/Grunt/internal/app/user"

// Post is a public message on the main feed. Timestamps across the store are
// milliseconds since the Unix epoch.
type Post struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Image     string `json:"image,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Reply is one entry in a post's thread.
type Reply struct {
	From      string `json:"from"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// DMEntry is one direct message between two users.
type DMEntry struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Conversation summarizes the most recent message of one DM history for the
// inbox view.
type Conversation struct {
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
	Preview   string `json:"preview"`
}

// GroupMessage is one message in the global group chat or in a private
// group's log.
type GroupMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// PrivateGroup is the registry record of an invite-only group.
// The owner is always a member and carries the "owner" role.
type PrivateGroup struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Owner   string            `json:"owner"`
	Members []string          `json:"members"`
	Roles   map[string]string `json:"roles"`
}

// IsMember reports whether username belongs to the group.
func (g *PrivateGroup) IsMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}

// CanManage reports whether username may invite or kick members.
func (g *PrivateGroup) CanManage(username string) bool {
	role := g.Roles[username]
	return role == user.RoleOwner || role == user.RoleAdmin
}

// clone returns a deep copy so callers never alias store-owned state.
func (g *PrivateGroup) clone() PrivateGroup {
	members := make([]string, len(g.Members))
	copy(members, g.Members)

	roles := make(map[string]string, len(g.Roles))
	for k, v := range g.Roles {
		roles[k] = v
	}

	return PrivateGroup{
		ID:      g.ID,
		Name:    g.Name,
		Owner:   g.Owner,
		Members: members,
		Roles:   roles,
	}
}
