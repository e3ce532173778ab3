package store

import (
	"slices"
	"sync"

	"mindfeed/internal/models"
)

// ThoughtState is the durable shape of the thought store.
// IsLoading and Error are written but reset on every rehydration.
type ThoughtState struct {
	Thoughts             []models.Thought `json:"thoughts"`
	ShowOnlyUserThoughts bool             `json:"showOnlyUserThoughts"`
	IsLoading            bool             `json:"isLoading"`
	Error                *string          `json:"error"`
}

// ThoughtStore is the single source of truth for posts and their engagement.
// Newest thoughts come first.
type ThoughtStore struct {
	observers

	mu                   sync.RWMutex
	thoughts             []models.Thought
	showOnlyUserThoughts bool
	isLoading            bool
	err                  *string
}

// NewThoughtStore returns a store seeded with initial, normalized.
func NewThoughtStore(initial []models.Thought) *ThoughtStore {
	s := &ThoughtStore{observers: observers{name: "thoughts"}}
	s.thoughts = normalizeThoughts(initial)
	return s
}

func normalizeThoughts(in []models.Thought) []models.Thought {
	out := make([]models.Thought, 0, len(in))
	for _, t := range in {
		out = append(out, t.Normalize())
	}
	return out
}

// commit runs fn under the write lock and notifies subscribers if fn
// reports a change.
func (s *ThoughtStore) commit(action string, fn func() bool) {
	s.mu.Lock()
	changed := fn()
	s.mu.Unlock()
	if changed {
		s.notify(action)
	}
}

func (s *ThoughtStore) indexOf(id string) int {
	return slices.IndexFunc(s.thoughts, func(t models.Thought) bool { return t.ID == id })
}

// Thoughts returns a copy of every thought, newest first.
func (s *ThoughtStore) Thoughts() []models.Thought {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Thought, len(s.thoughts))
	for i, t := range s.thoughts {
		out[i] = t.Clone()
	}
	return out
}

// Thought returns a copy of the thought with id.
func (s *ThoughtStore) Thought(id string) (models.Thought, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.thoughts[i].Clone(), true
	}
	return models.Thought{}, false
}

// SetThoughts replaces the whole collection.
func (s *ThoughtStore) SetThoughts(thoughts []models.Thought) {
	s.commit("set_thoughts", func() bool {
		s.thoughts = normalizeThoughts(thoughts)
		return true
	})
}

// AddThought inserts thought at the head of the feed. Missing collections
// are normalized to empty and the counters are derived from them.
func (s *ThoughtStore) AddThought(thought models.Thought) {
	s.commit("add_thought", func() bool {
		s.thoughts = slices.Insert(s.thoughts, 0, thought.Normalize())
		return true
	})
}

// UpdateThought shallow-merges patch into the thought with id.
// It does nothing when id is unknown.
func (s *ThoughtStore) UpdateThought(id string, patch models.ThoughtPatch) {
	s.commit("update_thought", func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.thoughts[i] = patch.Apply(s.thoughts[i])
		return true
	})
}

// DeleteThought removes the thought with id, if present.
func (s *ThoughtStore) DeleteThought(id string) {
	s.commit("delete_thought", func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.thoughts = slices.Delete(s.thoughts, i, i+1)
		return true
	})
}

// LikeThought records userID as liking the thought. Repeated likes by the
// same user change nothing.
func (s *ThoughtStore) LikeThought(thoughtID, userID string) {
	s.commit("like_thought", func() bool {
		i := s.indexOf(thoughtID)
		if i < 0 || s.thoughts[i].IsLikedBy(userID) {
			return false
		}
		t := &s.thoughts[i]
		t.LikedBy = append(slices.Clip(t.LikedBy), userID)
		t.Likes = len(t.LikedBy)
		return true
	})
}

// UnlikeThought removes userID from the thought's likes, if present.
func (s *ThoughtStore) UnlikeThought(thoughtID, userID string) {
	s.commit("unlike_thought", func() bool {
		i := s.indexOf(thoughtID)
		if i < 0 || !s.thoughts[i].IsLikedBy(userID) {
			return false
		}
		t := &s.thoughts[i]
		t.LikedBy = slices.DeleteFunc(slices.Clone(t.LikedBy), func(id string) bool { return id == userID })
		t.Likes = len(t.LikedBy)
		return true
	})
}

// AddComment appends comment to the thought, oldest first.
func (s *ThoughtStore) AddComment(thoughtID string, comment models.Comment) {
	s.commit("add_comment", func() bool {
		i := s.indexOf(thoughtID)
		if i < 0 {
			return false
		}
		t := &s.thoughts[i]
		t.CommentData = append(slices.Clip(t.CommentData), comment)
		t.Comments = len(t.CommentData)
		return true
	})
}

// ShowOnlyUserThoughts reports the feed filter mode.
func (s *ThoughtStore) ShowOnlyUserThoughts() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showOnlyUserThoughts
}

// SetShowOnlyUserThoughts toggles the feed filter mode.
func (s *ThoughtStore) SetShowOnlyUserThoughts(show bool) {
	s.commit("set_filter", func() bool {
		if s.showOnlyUserThoughts == show {
			return false
		}
		s.showOnlyUserThoughts = show
		return true
	})
}

// IsLoading reports the request-lifecycle flag.
func (s *ThoughtStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *ThoughtStore) SetLoading(loading bool) {
	s.commit("set_loading", func() bool {
		if s.isLoading == loading {
			return false
		}
		s.isLoading = loading
		return true
	})
}

// Error returns the last recorded error message, or "".
func (s *ThoughtStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err == nil {
		return ""
	}
	return *s.err
}

func (s *ThoughtStore) SetError(msg string) {
	s.commit("set_error", func() bool {
		s.err = &msg
		return true
	})
}

func (s *ThoughtStore) ClearError() {
	s.commit("clear_error", func() bool {
		if s.err == nil {
			return false
		}
		s.err = nil
		return true
	})
}

// Snapshot returns a deep copy of the durable state.
func (s *ThoughtStore) Snapshot() ThoughtState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thoughts := make([]models.Thought, len(s.thoughts))
	for i, t := range s.thoughts {
		thoughts[i] = t.Clone()
	}
	return ThoughtState{
		Thoughts:             thoughts,
		ShowOnlyUserThoughts: s.showOnlyUserThoughts,
		IsLoading:            s.isLoading,
		Error:                cloneStringPtr(s.err),
	}
}

// Restore replaces the store state with state.
func (s *ThoughtStore) Restore(state ThoughtState) {
	s.commit("restore", func() bool {
		s.thoughts = normalizeThoughts(state.Thoughts)
		s.showOnlyUserThoughts = state.ShowOnlyUserThoughts
		s.isLoading = state.IsLoading
		s.err = cloneStringPtr(state.Error)
		return true
	})
}
