package store

import (
	"fmt"
	"testing"
	"time"

	"mindfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestNotesStore() (*NotesStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	n := 0
	s := NewNotesStore(nil,
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("note-%d", n)
		}),
	)
	return s, clock
}

func draft(userID, title string) models.NoteDraft {
	return models.NoteDraft{UserID: userID, Title: title, Content: "B", Tags: []string{}}
}

func TestNotesStore_AddSelectDeleteScenario(t *testing.T) {
	s, clock := newTestNotesStore()

	id := s.AddNote(models.NoteDraft{UserID: "u1", Title: "A", Content: "B", Tags: []string{}})
	require.NotEmpty(t, id)

	sel, ok := s.GetSelectedNote()
	require.True(t, ok)
	assert.Equal(t, id, sel.ID)
	assert.Equal(t, "A", sel.Title)
	assert.Equal(t, clock.now, sel.CreatedAt)
	assert.Equal(t, clock.now, sel.UpdatedAt)

	s.DeleteNote(id)
	_, ok = s.GetSelectedNote()
	assert.False(t, ok)
	_, ok = s.SelectedNoteID()
	assert.False(t, ok)
}

func TestNotesStore_DefaultIDsAreUnique(t *testing.T) {
	s := NewNotesStore(nil)
	a := s.AddNote(draft("u1", "a"))
	b := s.AddNote(draft("u1", "b"))
	assert.NotEqual(t, a, b)
}

func TestNotesStore_DeleteNonSelectedKeepsCursor(t *testing.T) {
	s, _ := newTestNotesStore()
	first := s.AddNote(draft("u1", "first"))
	second := s.AddNote(draft("u1", "second"))

	s.DeleteNote(first)

	sel, ok := s.SelectedNoteID()
	require.True(t, ok)
	assert.Equal(t, second, sel)
}

func TestNotesStore_GetUserNotesNewestFirst(t *testing.T) {
	s, _ := newTestNotesStore()
	a := s.AddNote(draft("u1", "a"))
	s.AddNote(draft("u2", "other"))
	b := s.AddNote(draft("u1", "b"))

	notes := s.GetUserNotes("u1")
	require.Len(t, notes, 2)
	assert.Equal(t, b, notes[0].ID)
	assert.Equal(t, a, notes[1].ID)
	assert.Empty(t, s.GetUserNotes("nobody"))
}

func TestNotesStore_SelectUnknownIDYieldsNoNote(t *testing.T) {
	s, _ := newTestNotesStore()
	s.AddNote(draft("u1", "a"))

	ghost := "ghost"
	s.SelectNote(&ghost)

	id, ok := s.SelectedNoteID()
	assert.True(t, ok)
	assert.Equal(t, "ghost", id)
	_, ok = s.GetSelectedNote()
	assert.False(t, ok)

	s.ClearSelection()
	_, ok = s.SelectedNoteID()
	assert.False(t, ok)
}

func TestNotesStore_UpdateNoteDoesNotStampUpdatedAt(t *testing.T) {
	s, clock := newTestNotesStore()
	id := s.AddNote(draft("u1", "a"))
	created, _ := s.GetSelectedNote()

	clock.Advance(time.Hour)
	edited := created
	edited.Title = "edited"
	edited.CreatedAt = time.Time{}
	s.UpdateNote(edited)

	got, _ := s.GetSelectedNote()
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt, "store must not stamp updatedAt")

	edited.UpdatedAt = clock.now
	s.UpdateNote(edited)
	got, _ = s.GetSelectedNote()
	assert.Equal(t, clock.now, got.UpdatedAt)
}

func TestNotesStore_UpdateUnknownIsNoop(t *testing.T) {
	s, _ := newTestNotesStore()
	s.AddNote(draft("u1", "a"))
	before := s.Snapshot()

	s.UpdateNote(models.Note{ID: "missing", Title: "x"})
	s.TogglePinNote("missing")

	assert.Equal(t, before, s.Snapshot())
}

func TestNotesStore_TogglePinLeavesUpdatedAt(t *testing.T) {
	s, clock := newTestNotesStore()
	id := s.AddNote(draft("u1", "a"))
	before, _ := s.GetSelectedNote()

	clock.Advance(time.Minute)
	s.TogglePinNote(id)
	got, _ := s.GetSelectedNote()
	assert.True(t, got.IsPinned)
	assert.Equal(t, before.UpdatedAt, got.UpdatedAt)

	s.TogglePinNote(id)
	got, _ = s.GetSelectedNote()
	assert.False(t, got.IsPinned)
}

func TestNotesStore_SnapshotRestore(t *testing.T) {
	s, _ := newTestNotesStore()
	id := s.AddNote(draft("u1", "a"))
	snap := s.Snapshot()

	other, _ := newTestNotesStore()
	other.Restore(snap)

	got, ok := other.GetSelectedNote()
	require.True(t, ok)
	assert.Equal(t, id, got.ID)

	snap.Notes[0].Title = "mutated"
	got, _ = other.GetSelectedNote()
	assert.Equal(t, "a", got.Title)
}
