package service

import (
	"testing"
	"time"

	"mindfeed/internal/models"
	"mindfeed/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestNoteService(t *testing.T) (*NoteService, *store.NotesStore, *store.ThoughtStore) {
	t.Helper()
	notes := store.NewNotesStore([]models.Note{
		{ID: "n1", UserID: "user-001", Title: "Go Generics", Content: "type params", Tags: []string{"golang"}, CreatedAt: created, UpdatedAt: created},
		{ID: "n2", UserID: "user-001", Title: "Groceries", Content: "Milk and eggs", Tags: []string{"Home"}, CreatedAt: created, UpdatedAt: created},
		{ID: "n3", UserID: "user-002", Title: "Go tour", CreatedAt: created, UpdatedAt: created},
	})
	thoughtSvc, thoughts := newTestThoughtService(t, nil, true)
	svc := NewNoteService(notes, thoughtSvc)
	svc.now = func() time.Time { return created.Add(time.Hour) }
	return svc, notes, thoughts
}

func TestNoteService_SaveStampsUpdatedAt(t *testing.T) {
	svc, notes, _ := newTestNoteService(t)

	saved, err := svc.Save(models.Note{ID: "n1", UserID: "user-001", Title: "Go Generics v2"})
	require.NoError(t, err)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), saved.UpdatedAt)

	stored := notes.GetUserNotes("user-001")[0]
	assert.Equal(t, "Go Generics v2", stored.Title)
	assert.Equal(t, created.Add(time.Hour), stored.UpdatedAt)

	_, err = svc.Save(models.Note{ID: "nope"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestNoteService_Search(t *testing.T) {
	svc, _, _ := newTestNoteService(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"n1", "n2"}},
		{"GO", []string{"n1"}},
		{"eggs", []string{"n2"}},
		{"home", []string{"n2"}},
		{"tour", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ids := []string{}
			for _, n := range svc.Search("user-001", tt.query) {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestNoteService_PublishAsThought(t *testing.T) {
	svc, _, thoughts := newTestNoteService(t)

	th, err := svc.PublishAsThought(PublishNoteInput{NoteID: "n2", Excerpt: "Milk", Tags: []string{"shopping"}, IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "Milk", th.Content)
	assert.Equal(t, []string{"shopping"}, th.Tags)

	whole, err := svc.PublishAsThought(PublishNoteInput{NoteID: "n1"})
	require.NoError(t, err)
	assert.Equal(t, "type params", whole.Content)
	assert.Nil(t, whole.Tags)
	assert.Len(t, thoughts.Thoughts(), 2)

	_, err = svc.PublishAsThought(PublishNoteInput{NoteID: "n1", Tags: []string{"1", "2", "3", "4", "5", "6"}})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestNoteService_Create(t *testing.T) {
	svc, notes, _ := newTestNoteService(t)

	n, err := svc.Create("user-002", models.NoteDraft{UserID: "spoofed", Title: "Standup"})
	require.NoError(t, err)
	assert.Equal(t, "user-002", n.UserID)
	selected, ok := notes.SelectedNoteID()
	require.True(t, ok)
	assert.Equal(t, n.ID, selected)

	_, err = svc.Create("", models.NoteDraft{Title: "x"})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}
