/*
Package user defines the account record persisted in users.json and the
profile summaries exposed over the REST surface.
*/
package user

import "strings"

// Role values stored in a private group's role map.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is the persisted account record, keyed by username in the users
// collection. The username itself is the map key and is not repeated here.
type User struct {
	// Password holds the bcrypt credential hash.
	Password string `json:"password"`

	// Profile fields. Empty values fall back to username-derived defaults
	// when rendered (see Profile).
	DisplayName string `json:"displayName,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Bio         string `json:"bio,omitempty"`

	// Posts counts authored public posts.
	Posts int `json:"posts"`

	// Followers and Following hold usernames; a user never appears in its
	// own sets.
	Followers []string `json:"followers"`
	Following []string `json:"following"`

	// IsAdmin marks the administrator account.
	IsAdmin bool `json:"isAdmin"`

	// Banned blocks the account at the moderation gate.
	Banned bool `json:"banned"`

	// IP is the last-known originating address, recorded at signin.
	IP string `json:"ip"`
}

// New returns a fresh account record with an empty social graph. The
// administrator flag is set iff username equals adminName case-insensitively.
func New(passwordHash, username, adminName string) *User {
	return &User{
		Password:  passwordHash,
		Posts:     0,
		Followers: []string{},
		Following: []string{},
		IsAdmin:   strings.EqualFold(username, adminName),
		Banned:    false,
		IP:        "",
	}
}

// IsFollowing reports whether this user follows target.
func (u *User) IsFollowing(target string) bool {
	for _, name := range u.Following {
		if name == target {
			return true
		}
	}
	return false
}

// Profile is the summary returned for the session owner.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
	Bio         string `json:"bio"`
	Posts       int    `json:"posts"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	IsAdmin     bool   `json:"isAdmin"`
}

// PublicProfile is the summary returned for another account, including the
// viewer's follow relationship.
type PublicProfile struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
	Bio         string `json:"bio"`
	Posts       int    `json:"posts"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	IsFollowing bool   `json:"isFollowing"`
}

// Profile builds the session owner's profile summary with username-derived
// defaults for unset fields.
func (u *User) Profile(username string) Profile {
	return Profile{
		Username:    username,
		DisplayName: defaultString(u.DisplayName, username),
		Handle:      defaultString(u.Handle, "@"+username),
		Bio:         u.Bio,
		Posts:       u.Posts,
		Followers:   len(u.Followers),
		Following:   len(u.Following),
		IsAdmin:     u.IsAdmin,
	}
}

// PublicProfile builds the profile summary of username as seen by viewer.
func (u *User) PublicProfile(username string, viewer *User) PublicProfile {
	return PublicProfile{
		Username:    username,
		DisplayName: defaultString(u.DisplayName, username),
		Handle:      defaultString(u.Handle, "@"+username),
		Bio:         u.Bio,
		Posts:       u.Posts,
		Followers:   len(u.Followers),
		Following:   len(u.Following),
		IsFollowing: viewer != nil && viewer.IsFollowing(username),
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
