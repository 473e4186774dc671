// Package login implements the owner's password login endpoint.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/auth"
	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/web/session"
)

// Path is the login endpoint.
const Path = "/login"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode"`
}

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg("app or cfg or db is nil")
		return
	}

	s.cfg = cfg
	s.db = db
	s.provider = auth.NewLocalProvider(db)

	app.Post(Path, s.Post)
}

// Post handles the login request and sets the session cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := s.provider.Authenticate(req.Username, req.Password, req.TOTPCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidTOTPCode):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":        "invalid totp code",
				"totpRequired": true,
			})
		case errors.Is(err, auth.ErrUserNotFound),
			errors.Is(err, auth.ErrInvalidPassword),
			errors.Is(err, auth.ErrUserAccountDisabled):
			// one message for all credential failures
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid username or password",
			})
		default:
			log.Error().Err(err).Msg("login failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	userSession := &session.Data{User: *user}
	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Str("username", user.Username).Msg("owner logged in")

	return c.JSON(fiber.Map{
		"username": user.Username,
	})
}
