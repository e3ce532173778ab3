// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is the account tier of a user.
type Role string

const (
	// RoleUser is a regular account.
	RoleUser Role = "user"
	// RoleAdmin is a platform administrator.
	RoleAdmin Role = "admin"
	// RolePro is a paid creator account.
	RolePro Role = "pro"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RolePro:
		return true
	}
	return false
}

// Preferences holds per-user display and notification flags.
type Preferences struct {
	DarkMode      bool `json:"darkMode" yaml:"darkMode"`
	Notifications bool `json:"notifications" yaml:"notifications"`
	EmailUpdates  bool `json:"emailUpdates" yaml:"emailUpdates"`
}

// User is a directory record. Following and Followers are display counters
// and are not derived from the relationship graph.
type User struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Email       string       `json:"email" yaml:"email"`
	Avatar      string       `json:"avatar" yaml:"avatar"`
	Role        Role         `json:"role" yaml:"role"`
	Bio         string       `json:"bio,omitempty" yaml:"bio"`
	JoinedDate  time.Time    `json:"joinedDate" yaml:"joinedDate"`
	Following   int          `json:"following" yaml:"following"`
	Followers   int          `json:"followers" yaml:"followers"`
	Preferences *Preferences `json:"preferences,omitempty" yaml:"preferences"`
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	if u.Preferences != nil {
		p := *u.Preferences
		u.Preferences = &p
	}
	return u
}

// Public projects u to the shape that is safe to show other users.
func (u User) Public() PublicUserInfo {
	return PublicUserInfo{
		ID:        u.ID,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Followers: u.Followers,
		Following: u.Following,
	}
}

// UserPatch is a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Name        *string      `json:"name,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Avatar      *string      `json:"avatar,omitempty"`
	Role        *Role        `json:"role,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	Following   *int         `json:"following,omitempty"`
	Followers   *int         `json:"followers,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Apply returns a copy of u with the non-nil patch fields merged in.
// ID and JoinedDate are never patched.
func (p UserPatch) Apply(u User) User {
	out := u.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Avatar != nil {
		out.Avatar = *p.Avatar
	}
	if p.Role != nil {
		out.Role = *p.Role
	}
	if p.Bio != nil {
		out.Bio = *p.Bio
	}
	if p.Following != nil {
		out.Following = *p.Following
	}
	if p.Followers != nil {
		out.Followers = *p.Followers
	}
	if p.Preferences != nil {
		prefs := *p.Preferences
		out.Preferences = &prefs
	}
	return out
}

// PublicUserInfo is the public-safe projection of a User. It never carries
// email or preferences.
type PublicUserInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio,omitempty"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	IsFollowing *bool  `json:"isFollowing,omitempty"`
}
