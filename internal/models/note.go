package models

import (
	"slices"
	"time"
)

// Note is a markdown note owned by exactly one user.
// IsPrivate is carried but not enforced by any access check.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"userId"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	Color     string    `json:"color" yaml:"color"`
	IsPinned  bool      `json:"isPinned" yaml:"isPinned"`
	IsPrivate bool      `json:"isPrivate" yaml:"isPrivate"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Clone returns a deep copy of n.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// NoteDraft is a note before the store assigns its id and timestamps.
type NoteDraft struct {
	UserID    string   `json:"userId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Color     string   `json:"color"`
	IsPinned  bool     `json:"isPinned"`
	IsPrivate bool     `json:"isPrivate"`
}
