package server

import (
	"mindfeed/internal/models"
	"mindfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sessionResponse struct {
	User          *models.User `json:"user"`
	Authenticated bool         `json:"authenticated"`
	IsLoading     bool         `json:"isLoading"`
	Error         string       `json:"error,omitempty"`
}

type signInRequest struct {
	UserID string `json:"userId"`
}

// GetSession returns the session user and request flags.
func (s *Server) GetSession(c *fiber.Ctx) error {
	resp := sessionResponse{
		IsLoading: s.stores.User.IsLoading(),
		Error:     s.stores.User.Error(),
	}
	if u, ok := s.stores.User.CurrentUser(); ok {
		resp.User = &u
		resp.Authenticated = true
	}
	return c.JSON(resp)
}

// SignIn resolves userId through the directory and makes it the session user.
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.UserID == "" {
		return respond(c, models.NewValidationError("userId is required"))
	}
	u, err := s.users.FetchCurrentUser(c.UserContext(), req.UserID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(u)
}

// UpdateProfile patches the session user's profile.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	userID := s.sessionUserID()
	if userID == "" {
		return respond(c, models.NewValidationError("Cannot update user: No user is currently logged in"))
	}
	u, err := s.users.UpdateUserProfile(c.UserContext(), service.UpdateProfileInput{UserID: userID, Patch: patch})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(u)
}

// SignOut clears the session user.
func (s *Server) SignOut(c *fiber.Ctx) error {
	s.users.Logout()
	return c.SendStatus(fiber.StatusNoContent)
}
