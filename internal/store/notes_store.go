package store

import (
	"slices"
	"sync"
	"time"

	"mindfeed/internal/models"

	"github.com/google/uuid"
)

// NotesState is the durable shape of the notes store.
type NotesState struct {
	Notes          []models.Note `json:"notes"`
	SelectedNoteID *string       `json:"selectedNoteId"`
}

// NotesOption configures a NotesStore.
type NotesOption func(*NotesStore)

// WithClock overrides the time source used to stamp new notes.
func WithClock(now func() time.Time) NotesOption {
	return func(s *NotesStore) { s.now = now }
}

// WithIDGenerator overrides how new note ids are minted.
func WithIDGenerator(newID func() string) NotesOption {
	return func(s *NotesStore) { s.newID = newID }
}

// NotesStore keeps every user's notes plus a single selection cursor.
type NotesStore struct {
	observers

	mu       sync.RWMutex
	notes    []models.Note
	selected *string

	now   func() time.Time
	newID func() string
}

// NewNotesStore returns a store seeded with initial.
func NewNotesStore(initial []models.Note, opts ...NotesOption) *NotesStore {
	s := &NotesStore{
		observers: observers{name: "notes"},
		notes:     cloneNotes(initial),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cloneNotes(in []models.Note) []models.Note {
	out := make([]models.Note, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}

func (s *NotesStore) commit(action string, fn func() bool) {
	s.mu.Lock()
	changed := fn()
	s.mu.Unlock()
	if changed {
		s.notify(action)
	}
}

func (s *NotesStore) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id })
}

// Notes returns a copy of every note, most recently added first.
func (s *NotesStore) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

// GetUserNotes returns the notes owned by userID in stored order.
func (s *NotesStore) GetUserNotes(userID string) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Note{}
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n.Clone())
		}
	}
	return out
}

// SelectedNoteID returns the cursor, if set.
func (s *NotesStore) SelectedNoteID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return "", false
	}
	return *s.selected, true
}

// GetSelectedNote returns the note under the cursor. A cursor pointing at an
// unknown id yields false.
func (s *NotesStore) GetSelectedNote() (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Note{}, false
	}
	if i := s.indexOf(*s.selected); i >= 0 {
		return s.notes[i].Clone(), true
	}
	return models.Note{}, false
}

// AddNote stores a new note built from draft, selects it and returns its id.
func (s *NotesStore) AddNote(draft models.NoteDraft) string {
	var id string
	s.commit("add_note", func() bool {
		now := s.now()
		id = s.newID()
		note := models.Note{
			ID:        id,
			UserID:    draft.UserID,
			Title:     draft.Title,
			Content:   draft.Content,
			Tags:      slices.Clone(draft.Tags),
			Color:     draft.Color,
			IsPinned:  draft.IsPinned,
			IsPrivate: draft.IsPrivate,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.notes = slices.Insert(s.notes, 0, note.Clone())
		s.selected = &id
		return true
	})
	return id
}

// UpdateNote replaces the stored note that has note.ID. The stored id and
// CreatedAt are kept; a zero UpdatedAt keeps the stored value. UpdatedAt is
// never stamped here, callers own it.
func (s *NotesStore) UpdateNote(note models.Note) {
	s.commit("update_note", func() bool {
		i := s.indexOf(note.ID)
		if i < 0 {
			return false
		}
		prev := s.notes[i]
		next := note.Clone()
		next.CreatedAt = prev.CreatedAt
		if next.UpdatedAt.IsZero() {
			next.UpdatedAt = prev.UpdatedAt
		}
		s.notes[i] = next
		return true
	})
}

// DeleteNote removes the note with id and clears the cursor if it pointed at it.
func (s *NotesStore) DeleteNote(id string) {
	s.commit("delete_note", func() bool {
		changed := false
		if i := s.indexOf(id); i >= 0 {
			s.notes = slices.Delete(s.notes, i, i+1)
			changed = true
		}
		if s.selected != nil && *s.selected == id {
			s.selected = nil
			changed = true
		}
		return changed
	})
}

// SelectNote moves the cursor. The id is not validated; nil clears it.
func (s *NotesStore) SelectNote(id *string) {
	s.commit("select_note", func() bool {
		s.selected = cloneStringPtr(id)
		return true
	})
}

// ClearSelection is SelectNote(nil).
func (s *NotesStore) ClearSelection() {
	s.SelectNote(nil)
}

// TogglePinNote flips IsPinned on the note with id. UpdatedAt is untouched.
func (s *NotesStore) TogglePinNote(id string) {
	s.commit("toggle_pin", func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.notes[i].IsPinned = !s.notes[i].IsPinned
		return true
	})
}

// Snapshot returns a deep copy of the durable state.
func (s *NotesStore) Snapshot() NotesState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NotesState{
		Notes:          cloneNotes(s.notes),
		SelectedNoteID: cloneStringPtr(s.selected),
	}
}

// Restore replaces the store state with state.
func (s *NotesStore) Restore(state NotesState) {
	s.commit("restore", func() bool {
		s.notes = cloneNotes(state.Notes)
		s.selected = cloneStringPtr(state.SelectedNoteID)
		return true
	})
}
