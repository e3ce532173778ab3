package server

import (
	"mindfeed/internal/models"
	"mindfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type selectNoteRequest struct {
	NoteID *string `json:"noteId"`
}

type publishNoteRequest struct {
	Excerpt  string   `json:"excerpt"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"isPublic"`
}

// ListNotes returns the session user's notes, filtered by ?q=.
func (s *Server) ListNotes(c *fiber.Ctx) error {
	userID := s.sessionUserID()
	if userID == "" {
		return respond(c, models.NewValidationError("Sign in to continue"))
	}
	return c.JSON(s.notes.Search(userID, c.Query("q")))
}

// CreateNote adds a note for the session user and selects it.
func (s *Server) CreateNote(c *fiber.Ctx) error {
	var draft models.NoteDraft
	if err := c.BodyParser(&draft); err != nil {
		return badBody(c)
	}
	n, err := s.notes.Create(s.sessionUserID(), draft)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// SaveNote replaces a note and stamps updatedAt.
func (s *Server) SaveNote(c *fiber.Ctx) error {
	var note models.Note
	if err := c.BodyParser(&note); err != nil {
		return badBody(c)
	}
	note.ID = c.Params("id")
	saved, err := s.notes.Save(note)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(saved)
}

// DeleteNote removes a note, clearing the selection if it pointed there.
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := s.notes.Get(id); err != nil {
		return respond(c, err)
	}
	s.stores.Notes.DeleteNote(id)
	return c.SendStatus(fiber.StatusNoContent)
}

// TogglePin flips isPinned.
func (s *Server) TogglePin(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := s.notes.Get(id); err != nil {
		return respond(c, err)
	}
	s.stores.Notes.TogglePinNote(id)
	n, err := s.notes.Get(id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(n)
}

// GetSelectedNote returns the selected note, or null.
func (s *Server) GetSelectedNote(c *fiber.Ctx) error {
	if n, ok := s.stores.Notes.GetSelectedNote(); ok {
		return c.JSON(fiber.Map{"note": n})
	}
	return c.JSON(fiber.Map{"note": nil})
}

// SelectNote moves the cursor; null clears it.
func (s *Server) SelectNote(c *fiber.Ctx) error {
	var req selectNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	s.stores.Notes.SelectNote(req.NoteID)
	return c.JSON(req)
}

// PublishNote shares a note excerpt as a thought.
func (s *Server) PublishNote(c *fiber.Ctx) error {
	var req publishNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	t, err := s.notes.PublishAsThought(service.PublishNoteInput{
		NoteID:   c.Params("id"),
		Excerpt:  req.Excerpt,
		Tags:     req.Tags,
		IsPublic: req.IsPublic == nil || *req.IsPublic,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}
