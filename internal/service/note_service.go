package service

import (
	"strings"
	"time"

	"mindfeed/internal/models"
	"mindfeed/internal/store"
)

// NoteService layers editing flows over the notes store.
type NoteService struct {
	notes    *store.NotesStore
	thoughts *ThoughtService
	now      func() time.Time
}

type PublishNoteInput struct {
	NoteID string
	// Excerpt is the text to publish; empty publishes the whole note.
	Excerpt  string
	Tags     []string
	IsPublic bool
}

func NewNoteService(notes *store.NotesStore, thoughts *ThoughtService) *NoteService {
	return &NoteService{
		notes:    notes,
		thoughts: thoughts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the note with id.
func (s *NoteService) Get(id string) (models.Note, error) {
	for _, n := range s.notes.Notes() {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Note{}, models.NewNotFoundError("Note", id)
}

// Create adds a note for userID and selects it.
func (s *NoteService) Create(userID string, draft models.NoteDraft) (models.Note, error) {
	if userID == "" {
		return models.Note{}, models.NewValidationError("Sign in to continue")
	}
	draft.UserID = userID
	return s.Get(s.notes.AddNote(draft))
}

// Save writes an edited note back and stamps UpdatedAt.
func (s *NoteService) Save(note models.Note) (models.Note, error) {
	prev, err := s.Get(note.ID)
	if err != nil {
		return models.Note{}, err
	}
	if note.UserID == "" {
		note.UserID = prev.UserID
	}
	note.CreatedAt = prev.CreatedAt
	note.UpdatedAt = s.now()
	s.notes.UpdateNote(note)
	return note.Clone(), nil
}

// Search returns userID's notes whose title, content or any tag contains
// query, ignoring case. A blank query matches every note.
func (s *NoteService) Search(userID, query string) []models.Note {
	notes := s.notes.GetUserNotes(userID)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes
	}
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if noteMatches(n, q) {
			out = append(out, n)
		}
	}
	return out
}

func noteMatches(n models.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// PublishAsThought shares part of a note as a new thought by the session user.
func (s *NoteService) PublishAsThought(in PublishNoteInput) (models.Thought, error) {
	note, err := s.Get(in.NoteID)
	if err != nil {
		return models.Thought{}, err
	}
	content := in.Excerpt
	if strings.TrimSpace(content) == "" {
		content = note.Content
	}
	return s.thoughts.Compose(ComposeThoughtInput{
		Content:  content,
		Tags:     in.Tags,
		IsPublic: in.IsPublic,
	})
}
