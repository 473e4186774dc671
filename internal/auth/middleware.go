package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkforge/linkforge/internal/web/session"
)

// RequireOwner creates Fiber middleware that rejects requests without a
// valid owner session. Admin-path handlers sit behind this; the public read
// endpoints do not.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session")
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Debug().Err(err).Msg("failed to read session")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if sessionData.User.ID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		// expose the owner to handlers
		c.Locals("CurrentUser", sessionData.User)

		return c.Next()
	}
}
