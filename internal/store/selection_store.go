package store

import "sync"

// SelectionStore tracks which thought is open in the detail view.
// It is never persisted.
type SelectionStore struct {
	observers

	mu       sync.RWMutex
	selected *string
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{observers: observers{name: "selection"}}
}

// SelectedThoughtID returns the open thought id, if any.
func (s *SelectionStore) SelectedThoughtID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return "", false
	}
	return *s.selected, true
}

// SetSelectedThoughtID opens id; nil closes the detail view.
func (s *SelectionStore) SetSelectedThoughtID(id *string) {
	s.mu.Lock()
	s.selected = cloneStringPtr(id)
	s.mu.Unlock()
	s.notify("select_thought")
}
