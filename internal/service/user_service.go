package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"mindfeed/internal/directory"
	"mindfeed/internal/models"
	"mindfeed/internal/observability"
	"mindfeed/internal/store"
)

// UserService drives the session user through the directory. Fetches and
// profile updates share one request sequence: only the most recently issued
// request may commit to the user store.
type UserService struct {
	directory directory.Directory
	users     *store.UserStore

	mu     sync.Mutex // guards latest
	latest uint64

	// commitMu serializes store commits. Store listeners may block on
	// storage I/O, so it is held apart from mu and issuing never waits on it.
	commitMu sync.Mutex
}

type UpdateProfileInput struct {
	UserID string
	Patch  models.UserPatch
}

func NewUserService(dir directory.Directory, users *store.UserStore) *UserService {
	return &UserService{directory: dir, users: users}
}

func (s *UserService) issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

func (s *UserService) isLatest(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ticket == s.latest
}

// settle runs commit only if ticket is still the latest request. A request
// issued while commit runs settles after it, so the newest one still lands
// last.
func (s *UserService) settle(ticket uint64, operation string, commit func()) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if !s.isLatest(ticket) {
		observability.SupersededRequests.WithLabelValues(operation).Inc()
		return false
	}
	commit()
	return true
}

// FetchCurrentUser makes userID the session user. It returns the cached
// user without a lookup when that user is already loaded and idle.
func (s *UserService) FetchCurrentUser(ctx context.Context, userID string) (models.User, error) {
	if current, ok := s.users.CurrentUser(); ok && current.ID == userID && !s.users.IsLoading() {
		return current, nil
	}

	ticket := s.issue()
	s.users.SetLoading(true)
	s.users.ClearError()

	user, err := s.directory.FetchUserByID(ctx, userID)
	return s.finish(ctx, ticket, "fetch_current_user", "Failed to fetch user", user, err)
}

// UpdateUserProfile patches the profile in the directory and installs the
// merged result as the session user.
func (s *UserService) UpdateUserProfile(ctx context.Context, in UpdateProfileInput) (models.User, error) {
	if in.UserID == "" {
		return models.User{}, models.NewValidationError("User ID is required")
	}

	ticket := s.issue()
	s.users.SetLoading(true)
	s.users.ClearError()

	user, err := s.directory.UpdateUserProfile(ctx, in.UserID, in.Patch)
	return s.finish(ctx, ticket, "update_user_profile", "Failed to update user profile", user, err)
}

func (s *UserService) finish(ctx context.Context, ticket uint64, operation, fallback string, user models.User, err error) (models.User, error) {
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			appErr = models.NewUpstreamError(fallback, err)
		}
		committed := s.settle(ticket, operation, func() {
			s.users.SetError(appErr.Error())
			s.users.SetLoading(false)
		})
		if !committed {
			return models.User{}, models.NewSupersededError(operation)
		}
		observability.GlobalLogger.WarnContext(ctx, "directory request failed",
			slog.String("operation", operation),
			slog.String("error", appErr.Error()),
		)
		return models.User{}, appErr
	}

	committed := s.settle(ticket, operation, func() {
		s.users.SetCurrentUser(user)
		s.users.SetLoading(false)
	})
	if !committed {
		return models.User{}, models.NewSupersededError(operation)
	}
	return user, nil
}

// Logout clears the session user. Requests still in flight are superseded.
func (s *UserService) Logout() {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.issue()
	s.users.ClearCurrentUser()
	s.users.SetLoading(false)
}

func (s *UserService) IsAuthenticated() bool {
	_, ok := s.users.CurrentUser()
	return ok
}
