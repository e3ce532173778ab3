package models

import (
	"slices"
	"time"
)

// MaxThoughtTags caps the tags accepted when a thought is composed.
const MaxThoughtTags = 5

// Comment belongs to exactly one Thought. Author fields are a snapshot taken
// when the comment was written.
type Comment struct {
	ID          string    `json:"id" yaml:"id"`
	Text        string    `json:"text" yaml:"text"`
	AuthorID    string    `json:"authorId" yaml:"authorId"`
	AuthorName  string    `json:"authorName" yaml:"authorName"`
	AuthorImage string    `json:"authorImage" yaml:"authorImage"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Thought is a short social post.
//
// Likes and Comments mirror len(LikedBy) and len(CommentData). Only the
// thought store writes them, always by recomputing from the collections.
type Thought struct {
	ID          string    `json:"id" yaml:"id"`
	Content     string    `json:"content" yaml:"content"`
	AuthorID    string    `json:"authorId" yaml:"authorId"`
	Username    string    `json:"username" yaml:"username"`
	AuthorImage string    `json:"authorImage" yaml:"authorImage"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Likes       int       `json:"likes" yaml:"likes"`
	LikedBy     []string  `json:"likedBy" yaml:"likedBy"`
	Comments    int       `json:"comments" yaml:"comments"`
	CommentData []Comment `json:"commentData" yaml:"commentData"`
	Shares      int       `json:"shares" yaml:"shares"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags"`
	IsPublic    bool      `json:"isPublic" yaml:"isPublic"`
}

// Clone returns a deep copy of t.
func (t Thought) Clone() Thought {
	t.LikedBy = slices.Clone(t.LikedBy)
	t.CommentData = slices.Clone(t.CommentData)
	t.Tags = slices.Clone(t.Tags)
	return t
}

// Normalize makes the collections non-nil, drops duplicate likes and
// re-derives both counters.
func (t Thought) Normalize() Thought {
	liked := make([]string, 0, len(t.LikedBy))
	seen := make(map[string]struct{}, len(t.LikedBy))
	for _, id := range t.LikedBy {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		liked = append(liked, id)
	}
	t.LikedBy = liked
	if t.CommentData == nil {
		t.CommentData = []Comment{}
	} else {
		t.CommentData = slices.Clone(t.CommentData)
	}
	t.Tags = slices.Clone(t.Tags)
	t.Likes = len(t.LikedBy)
	t.Comments = len(t.CommentData)
	return t
}

// Engagement is the trending score of a thought.
func (t Thought) Engagement() int {
	return t.Likes + t.Comments + t.Shares
}

// IsLikedBy reports whether userID is in LikedBy.
func (t Thought) IsLikedBy(userID string) bool {
	return slices.Contains(t.LikedBy, userID)
}

// ThoughtPatch is a shallow update. Nil fields are left unchanged.
// Timestamp is the creation time and cannot be patched. Likes and comments
// change only through their dedicated operations.
type ThoughtPatch struct {
	Content     *string   `json:"content,omitempty"`
	AuthorID    *string   `json:"authorId,omitempty"`
	Username    *string   `json:"username,omitempty"`
	AuthorImage *string   `json:"authorImage,omitempty"`
	Shares      *int      `json:"shares,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
}

// Apply merges the patch into t and returns the result.
func (p ThoughtPatch) Apply(t Thought) Thought {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.AuthorID != nil {
		t.AuthorID = *p.AuthorID
	}
	if p.Username != nil {
		t.Username = *p.Username
	}
	if p.AuthorImage != nil {
		t.AuthorImage = *p.AuthorImage
	}
	if p.Shares != nil {
		t.Shares = *p.Shares
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
	if p.IsPublic != nil {
		t.IsPublic = *p.IsPublic
	}
	return t
}
