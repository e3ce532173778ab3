// Package store holds the in-memory state containers of the application:
// thoughts, notes, the session user, the follow graph and the open thought.
//
// Every store owns its collections exclusively. Reads return deep copies and
// mutations run as one critical section, after which subscribers are told
// the state changed. Mutations that find nothing to change are silent.
package store

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"mindfeed/internal/observability"
)

// Listener is called after a store commits a mutation.
type Listener func()

// Observable is implemented by every store.
type Observable interface {
	Subscribe(fn Listener) (unsubscribe func())
}

type subscription struct {
	id int
	fn Listener
}

// observers is an ordered listener list embedded by each store.
type observers struct {
	name string

	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (o *observers) Subscribe(fn Listener) func() {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscription{id: id, fn: fn})
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// notify runs listeners in registration order. It must be called without the
// store lock held so listeners can read the store.
func (o *observers) notify(action string) {
	observability.StoreMutations.WithLabelValues(o.name, action).Inc()

	o.mu.Lock()
	subs := make([]subscription, len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, s := range subs {
		o.run(action, s.fn)
	}
}

func (o *observers) run(action string, fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			observability.GlobalLogger.Error("store listener panicked",
				slog.String("store", o.name),
				slog.String("action", action),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
