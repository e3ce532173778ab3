package store

import (
	"slices"
	"sync"

	"mindfeed/internal/models"
)

// DefaultSuggestionLimit is used when GetSuggestedUsers gets a non-positive limit.
const DefaultSuggestionLimit = 5

// UserDirectory lists every known user in a stable order.
type UserDirectory interface {
	Users() []models.User
}

// RelationshipState is the durable shape of the relationship store.
// SuggestedUsers is a projection of the directory and is rebuilt on load.
type RelationshipState struct {
	FollowedUsers  []string                `json:"followedUsers"`
	SuggestedUsers []models.PublicUserInfo `json:"suggestedUsers"`
}

// RelationshipStore holds the set of users the session user follows.
// Self-follow is not rejected here.
type RelationshipStore struct {
	observers

	mu        sync.RWMutex
	followed  []string
	directory UserDirectory
}

// NewRelationshipStore returns an empty follow set over directory.
func NewRelationshipStore(directory UserDirectory) *RelationshipStore {
	return &RelationshipStore{
		observers: observers{name: "relationships"},
		followed:  []string{},
		directory: directory,
	}
}

func (s *RelationshipStore) commit(action string, fn func() bool) {
	s.mu.Lock()
	changed := fn()
	s.mu.Unlock()
	if changed {
		s.notify(action)
	}
}

// FollowUser adds id to the followed set.
func (s *RelationshipStore) FollowUser(id string) {
	s.commit("follow", func() bool {
		if slices.Contains(s.followed, id) {
			return false
		}
		s.followed = append(slices.Clip(s.followed), id)
		return true
	})
}

// UnfollowUser removes id from the followed set.
func (s *RelationshipStore) UnfollowUser(id string) {
	s.commit("unfollow", func() bool {
		if !slices.Contains(s.followed, id) {
			return false
		}
		s.followed = slices.DeleteFunc(slices.Clone(s.followed), func(f string) bool { return f == id })
		return true
	})
}

// IsFollowing reports whether id is followed.
func (s *RelationshipStore) IsFollowing(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.followed, id)
}

// FollowedUsers returns the followed ids in follow order.
func (s *RelationshipStore) FollowedUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.followed)
}

// GetSuggestedUsers returns up to limit directory users other than
// currentUserID, in directory order, each flagged with its follow state.
// Followed users are included.
func (s *RelationshipStore) GetSuggestedUsers(currentUserID string, limit int) []models.PublicUserInfo {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.PublicUserInfo{}
	for _, u := range s.users() {
		if len(out) == limit {
			break
		}
		if u.ID == currentUserID {
			continue
		}
		out = append(out, s.annotate(u))
	}
	return out
}

// GetUserPublicInfo projects the directory user with id.
func (s *RelationshipStore) GetUserPublicInfo(id string) (models.PublicUserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users() {
		if u.ID == id {
			return s.annotate(u), true
		}
	}
	return models.PublicUserInfo{}, false
}

func (s *RelationshipStore) users() []models.User {
	if s.directory == nil {
		return nil
	}
	return s.directory.Users()
}

func (s *RelationshipStore) annotate(u models.User) models.PublicUserInfo {
	info := u.Public()
	following := slices.Contains(s.followed, u.ID)
	info.IsFollowing = &following
	return info
}

// Snapshot returns a deep copy of the durable state.
func (s *RelationshipStore) Snapshot() RelationshipState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := s.users()
	suggested := make([]models.PublicUserInfo, 0, len(users))
	for _, u := range users {
		suggested = append(suggested, u.Public())
	}
	return RelationshipState{
		FollowedUsers:  slices.Clone(s.followed),
		SuggestedUsers: suggested,
	}
}

// Restore replaces the followed set. SuggestedUsers in state is ignored.
func (s *RelationshipStore) Restore(state RelationshipState) {
	s.commit("restore", func() bool {
		s.followed = slices.Clone(state.FollowedUsers)
		if s.followed == nil {
			s.followed = []string{}
		}
		return true
	})
}
