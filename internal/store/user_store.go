package store

import (
	"sync"

	"mindfeed/internal/models"
)

// UserState is the persisted projection of the user store: only the session
// user. Loading and error flags never reach storage.
type UserState struct {
	CurrentUser *models.User `json:"currentUser"`
}

// UserStore holds the one user signed in to this client.
type UserStore struct {
	observers

	mu        sync.RWMutex
	current   *models.User
	err       string
	isLoading bool
}

func NewUserStore() *UserStore {
	return &UserStore{observers: observers{name: "user"}}
}

func (s *UserStore) commit(action string, fn func() bool) {
	s.mu.Lock()
	changed := fn()
	s.mu.Unlock()
	if changed {
		s.notify(action)
	}
}

// CurrentUser returns a copy of the session user.
func (s *UserStore) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return s.current.Clone(), true
}

// SetCurrentUser replaces the session user and clears any prior error.
func (s *UserStore) SetCurrentUser(user models.User) {
	s.commit("set_current_user", func() bool {
		u := user.Clone()
		s.current = &u
		s.err = ""
		return true
	})
}

// ClearCurrentUser logs the session out. Other stores are left alone.
func (s *UserStore) ClearCurrentUser() {
	s.commit("clear_current_user", func() bool {
		if s.current == nil {
			return false
		}
		s.current = nil
		return true
	})
}

// Error returns the last request error, or "".
func (s *UserStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *UserStore) SetError(msg string) {
	s.commit("set_error", func() bool {
		if s.err == msg {
			return false
		}
		s.err = msg
		return true
	})
}

func (s *UserStore) ClearError() {
	s.SetError("")
}

func (s *UserStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *UserStore) SetLoading(loading bool) {
	s.commit("set_loading", func() bool {
		if s.isLoading == loading {
			return false
		}
		s.isLoading = loading
		return true
	})
}

// Snapshot returns the persisted projection.
func (s *UserStore) Snapshot() UserState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return UserState{}
	}
	u := s.current.Clone()
	return UserState{CurrentUser: &u}
}

// Restore replaces the session user; flags return to their defaults.
func (s *UserStore) Restore(state UserState) {
	s.commit("restore", func() bool {
		s.current = nil
		if state.CurrentUser != nil {
			u := state.CurrentUser.Clone()
			s.current = &u
		}
		s.err = ""
		s.isLoading = false
		return true
	})
}
