// Package directory is the lookup service for user profiles. The simulated
// implementation serves an in-memory roster behind artificial latency.
package directory

import (
	"context"
	"slices"
	"sync"
	"time"

	"mindfeed/internal/models"
	"mindfeed/internal/observability"
)

// Default latencies of the simulated directory.
const (
	DefaultFetchLatency  = 800 * time.Millisecond
	DefaultUpdateLatency = 1000 * time.Millisecond
)

// Directory resolves user ids to profiles.
type Directory interface {
	FetchUserByID(ctx context.Context, id string) (models.User, error)
	UpdateUserProfile(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
	Users() []models.User
}

// Config tunes the simulated directory.
type Config struct {
	FetchLatency  time.Duration
	UpdateLatency time.Duration
}

// Simulated is the only roster in the process. Profile updates are written
// here and nowhere else.
type Simulated struct {
	cfg Config

	mu    sync.RWMutex
	users []models.User
}

// NewSimulated returns a directory serving a copy of users in the given order.
func NewSimulated(users []models.User, cfg Config) *Simulated {
	roster := make([]models.User, len(users))
	for i, u := range users {
		roster[i] = u.Clone()
	}
	return &Simulated{cfg: cfg, users: roster}
}

// Users returns a copy of the roster.
func (d *Simulated) Users() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.User, len(d.users))
	for i, u := range d.users {
		out[i] = u.Clone()
	}
	return out
}

func (d *Simulated) lookup(id string) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := slices.IndexFunc(d.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, false
	}
	return d.users[i].Clone(), true
}

// FetchUserByID returns the profile for id after the fetch latency.
func (d *Simulated) FetchUserByID(ctx context.Context, id string) (user models.User, err error) {
	span, ctx := observability.StartDirectorySpan(ctx, "fetch", id)
	defer span.End()
	defer observeCall("fetch", &err)()

	if err := wait(ctx, d.cfg.FetchLatency); err != nil {
		span.SetError(err)
		return models.User{}, err
	}
	u, ok := d.lookup(id)
	if !ok {
		err := models.NewNotFoundError("User", id)
		span.SetError(err)
		return models.User{}, err
	}
	return u, nil
}

// UpdateUserProfile merges patch into the stored profile for id. The lookup
// and the write each pay their own latency.
func (d *Simulated) UpdateUserProfile(ctx context.Context, id string, patch models.UserPatch) (user models.User, err error) {
	span, ctx := observability.StartDirectorySpan(ctx, "update", id)
	defer span.End()
	defer observeCall("update", &err)()

	if _, err := d.FetchUserByID(ctx, id); err != nil {
		span.SetError(err)
		return models.User{}, err
	}
	if patch.Role != nil && !patch.Role.Valid() {
		err := models.NewValidationError("unknown role " + string(*patch.Role))
		span.SetError(err)
		return models.User{}, err
	}
	if err := wait(ctx, d.cfg.UpdateLatency); err != nil {
		span.SetError(err)
		return models.User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, models.NewNotFoundError("User", id)
	}
	d.users[i] = patch.Apply(d.users[i])
	return d.users[i].Clone(), nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func observeCall(operation string, err *error) func() {
	start := time.Now()
	return func() {
		outcome := "ok"
		switch {
		case *err == nil:
		case models.HasCode(*err, models.CodeNotFound):
			outcome = "not_found"
		default:
			outcome = "error"
		}
		observability.DirectoryLatency.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
	}
}
