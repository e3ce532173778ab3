package server

import (
	"mindfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSuggestedUsers lists users the session user might follow.
func (s *Server) GetSuggestedUsers(c *fiber.Ctx) error {
	return c.JSON(s.stores.Relationships.GetSuggestedUsers(s.sessionUserID(), queryLimit(c)))
}

// GetFollowing lists followed user ids.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	return c.JSON(s.stores.Relationships.FollowedUsers())
}

// GetUser returns the public profile of :id.
func (s *Server) GetUser(c *fiber.Ctx) error {
	info, ok := s.stores.Relationships.GetUserPublicInfo(c.Params("id"))
	if !ok {
		return respond(c, models.NewNotFoundError("User", c.Params("id")))
	}
	return c.JSON(info)
}

// Follow adds :id to the followed set.
func (s *Server) Follow(c *fiber.Ctx) error {
	id := c.Params("id")
	s.stores.Relationships.FollowUser(id)
	return c.JSON(fiber.Map{"userId": id, "following": true})
}

// Unfollow removes :id from the followed set.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	id := c.Params("id")
	s.stores.Relationships.UnfollowUser(id)
	return c.JSON(fiber.Map{"userId": id, "following": false})
}
