package server

import (
	"strconv"

	"mindfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respond writes err with the status its code maps to.
func respond(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

func badBody(c *fiber.Ctx) error {
	return respond(c, models.NewValidationError("Invalid request body"))
}

// sessionUserID returns the signed-in user's id, or "".
func (s *Server) sessionUserID() string {
	if u, ok := s.stores.User.CurrentUser(); ok {
		return u.ID
	}
	return ""
}

// queryLimit reads ?limit=, returning 0 when absent or malformed.
func queryLimit(c *fiber.Ctx) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// flagRequired hides a route behind a feature flag.
func (s *Server) flagRequired(flag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.flags.Enabled(flag, s.sessionUserID()) {
			return respond(c, models.NewNotFoundError("Feature", flag))
		}
		return c.Next()
	}
}

// GetFlags returns every flag evaluated for the session user.
func (s *Server) GetFlags(c *fiber.Ctx) error {
	return c.JSON(s.flags.Snapshot(s.sessionUserID()))
}
