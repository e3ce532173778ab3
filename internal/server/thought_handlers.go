package server

import (
	"mindfeed/internal/models"
	"mindfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createThoughtRequest struct {
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"isPublic"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type filterRequest struct {
	ShowOnlyUserThoughts bool `json:"showOnlyUserThoughts"`
}

type selectionRequest struct {
	ThoughtID *string `json:"thoughtId"`
}

// GetFeed returns the session user's feed.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	return c.JSON(s.thoughts.Feed())
}

// GetTrending returns the most engaging public thoughts.
func (s *Server) GetTrending(c *fiber.Ctx) error {
	return c.JSON(s.thoughts.Trending(queryLimit(c)))
}

// GetUserThoughts returns thoughts written by :id.
func (s *Server) GetUserThoughts(c *fiber.Ctx) error {
	return c.JSON(s.thoughts.ByAuthor(c.Params("id")))
}

// GetThought returns one thought.
func (s *Server) GetThought(c *fiber.Ctx) error {
	t, ok := s.stores.Thoughts.Thought(c.Params("id"))
	if !ok {
		return respond(c, models.NewNotFoundError("Thought", c.Params("id")))
	}
	return c.JSON(t)
}

// CreateThought composes a thought as the session user. Thoughts are public
// unless isPublic is false.
func (s *Server) CreateThought(c *fiber.Ctx) error {
	var req createThoughtRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	isPublic := req.IsPublic == nil || *req.IsPublic
	t, err := s.thoughts.Compose(service.ComposeThoughtInput{Content: req.Content, Tags: req.Tags, IsPublic: isPublic})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// UpdateThought applies a partial update. Engagement fields are not patchable.
func (s *Server) UpdateThought(c *fiber.Ctx) error {
	id := c.Params("id")
	var patch models.ThoughtPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	if _, ok := s.stores.Thoughts.Thought(id); !ok {
		return respond(c, models.NewNotFoundError("Thought", id))
	}
	if patch.Tags != nil {
		tags, err := service.NormalizeTags(*patch.Tags)
		if err != nil {
			return respond(c, err)
		}
		patch.Tags = &tags
	}
	s.stores.Thoughts.UpdateThought(id, patch)
	t, _ := s.stores.Thoughts.Thought(id)
	return c.JSON(t)
}

// DeleteThought removes a thought.
func (s *Server) DeleteThought(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := s.stores.Thoughts.Thought(id); !ok {
		return respond(c, models.NewNotFoundError("Thought", id))
	}
	s.stores.Thoughts.DeleteThought(id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike likes or unlikes a thought as the session user.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id := c.Params("id")
	liked, err := s.thoughts.ToggleLike(id)
	if err != nil {
		return respond(c, err)
	}
	t, _ := s.stores.Thoughts.Thought(id)
	return c.JSON(fiber.Map{"liked": liked, "likes": t.Likes})
}

// CreateComment comments on a thought as the session user.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := s.thoughts.Comment(c.Params("id"), req.Text)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// SetFeedFilter toggles the "only my thoughts" filter.
func (s *Server) SetFeedFilter(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	s.stores.Thoughts.SetShowOnlyUserThoughts(req.ShowOnlyUserThoughts)
	return c.JSON(req)
}

// GetSelection returns the open thought id, or null.
func (s *Server) GetSelection(c *fiber.Ctx) error {
	var resp selectionRequest
	if id, ok := s.stores.Selection.SelectedThoughtID(); ok {
		resp.ThoughtID = &id
	}
	return c.JSON(resp)
}

// SetSelection opens a thought; null closes it. The id is not checked.
func (s *Server) SetSelection(c *fiber.Ctx) error {
	var req selectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	s.stores.Selection.SetSelectedThoughtID(req.ThoughtID)
	return c.JSON(req)
}
