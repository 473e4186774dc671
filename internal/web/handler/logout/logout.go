// Package logout clears the owner's session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/linkforge/linkforge/internal/web/session"
)

// Path is the logout endpoint.
const Path = "/logout"

// Init registers the logout route.
func Init(app *fiber.App) {
	if app == nil {
		log.Fatal().Msg("app is nil")
		return
	}

	app.Get(Path, Get)
}

// Get deletes the server-side session and expires the cookie.
func Get(c *fiber.Ctx) error {
	if sessionID := c.Cookies("session"); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Debug().Err(err).Msg("failed to delete session")
		}
	}

	c.ClearCookie("session")

	return c.JSON(fiber.Map{"loggedOut": true})
}
