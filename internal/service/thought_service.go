package service

import (
	"slices"
	"strings"
	"time"

	"mindfeed/internal/models"
	"mindfeed/internal/store"

	"github.com/google/uuid"
)

// DefaultTrendingLimit is the trending list length.
const DefaultTrendingLimit = 10

// ThoughtService composes thoughts and comments on behalf of the session
// user and derives the read-only feed views.
type ThoughtService struct {
	thoughts *store.ThoughtStore
	users    *store.UserStore
	newID    func() string
	now      func() time.Time
}

type ComposeThoughtInput struct {
	Content  string
	Tags     []string
	IsPublic bool
}

func NewThoughtService(thoughts *store.ThoughtStore, users *store.UserStore) *ThoughtService {
	return &ThoughtService{
		thoughts: thoughts,
		users:    users,
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ThoughtService) author() (models.User, error) {
	u, ok := s.users.CurrentUser()
	if !ok {
		return models.User{}, models.NewValidationError("Sign in to continue")
	}
	return u, nil
}

// NormalizeTags trims tags, drops blanks and duplicates, and rejects more
// than MaxThoughtTags.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	if len(out) > models.MaxThoughtTags {
		return nil, models.NewValidationError("A thought can have at most 5 tags")
	}
	return out, nil
}

// Compose publishes a new thought authored by the session user.
func (s *ThoughtService) Compose(in ComposeThoughtInput) (models.Thought, error) {
	user, err := s.author()
	if err != nil {
		return models.Thought{}, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return models.Thought{}, models.NewValidationError("Thought content is required")
	}
	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return models.Thought{}, err
	}
	if len(tags) == 0 {
		tags = nil
	}

	thought := models.Thought{
		ID:          s.newID(),
		Content:     content,
		AuthorID:    user.ID,
		Username:    user.Name,
		AuthorImage: user.Avatar,
		Timestamp:   s.now(),
		Tags:        tags,
		IsPublic:    in.IsPublic,
	}.Normalize()
	s.thoughts.AddThought(thought)
	return thought, nil
}

// Comment appends a comment by the session user to thoughtID.
func (s *ThoughtService) Comment(thoughtID, text string) (models.Comment, error) {
	user, err := s.author()
	if err != nil {
		return models.Comment{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, models.NewValidationError("Comment text is required")
	}
	if _, ok := s.thoughts.Thought(thoughtID); !ok {
		return models.Comment{}, models.NewNotFoundError("Thought", thoughtID)
	}

	comment := models.Comment{
		ID:          s.newID(),
		Text:        text,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
		AuthorImage: user.Avatar,
		Timestamp:   s.now(),
	}
	s.thoughts.AddComment(thoughtID, comment)
	return comment, nil
}

// ToggleLike flips the session user's like on thoughtID and reports whether
// the thought is now liked.
func (s *ThoughtService) ToggleLike(thoughtID string) (bool, error) {
	user, err := s.author()
	if err != nil {
		return false, err
	}
	t, ok := s.thoughts.Thought(thoughtID)
	if !ok {
		return false, models.NewNotFoundError("Thought", thoughtID)
	}
	if t.IsLikedBy(user.ID) {
		s.thoughts.UnlikeThought(thoughtID, user.ID)
		return false, nil
	}
	s.thoughts.LikeThought(thoughtID, user.ID)
	return true, nil
}

// Trending returns public thoughts by descending engagement. Ties keep feed
// order.
func (s *ThoughtService) Trending(limit int) []models.Thought {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	public := slices.DeleteFunc(s.thoughts.Thoughts(), func(t models.Thought) bool { return !t.IsPublic })
	slices.SortStableFunc(public, func(a, b models.Thought) int {
		return b.Engagement() - a.Engagement()
	})
	if len(public) > limit {
		public = public[:limit]
	}
	return public
}

// Feed returns what the session user sees: their own thoughts plus every
// public one, or only their own when the filter is on. Signed out users see
// public thoughts.
func (s *ThoughtService) Feed() []models.Thought {
	user, signedIn := s.users.CurrentUser()
	onlyMine := s.thoughts.ShowOnlyUserThoughts()
	return slices.DeleteFunc(s.thoughts.Thoughts(), func(t models.Thought) bool {
		mine := signedIn && t.AuthorID == user.ID
		if onlyMine && signedIn {
			return !mine
		}
		return !mine && !t.IsPublic
	})
}

// ByAuthor returns the thoughts written by userID.
func (s *ThoughtService) ByAuthor(userID string) []models.Thought {
	return slices.DeleteFunc(s.thoughts.Thoughts(), func(t models.Thought) bool { return t.AuthorID != userID })
}
