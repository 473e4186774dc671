// Package oidc implements the optional OIDC owner sign-in flow: a login
// redirect carrying a state token and the provider callback that exchanges
// the code for a session.
package oidc

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/auth"
	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/web/session"
)

const (
	// LoginPath starts the OIDC flow.
	LoginPath = "/auth/oidc/login"
	// CallbackPath is the provider redirect target.
	CallbackPath = "/auth/oidc/callback"

	stateCookie = "oidc_state"
)

// Service is the OIDC handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.OIDCProvider
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init initializes the OIDC handler. When OIDC is disabled the routes are
// simply not registered.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg("app or cfg or db is nil")
		return
	}

	if !cfg.OIDC.Enabled {
		return
	}

	provider, err := auth.NewOIDCProvider(context.Background(), cfg.OIDC, db)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize OIDC provider, disabling OIDC login")
		return
	}

	s.cfg = cfg
	s.db = db
	s.provider = provider

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
}

// Login redirects to the provider's authorization endpoint.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(s.provider.GetAuthURL(state))
}

// Callback verifies the state, exchanges the code and logs the owner in.
func (s *Service) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "state mismatch",
		})
	}

	c.ClearCookie(stateCookie)

	user, err := s.provider.HandleCallback(c.Context(), c.Query("code"))
	if err != nil {
		if errors.Is(err, auth.ErrUnknownOIDCSubject) || errors.Is(err, auth.ErrUserAccountDisabled) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "account not allowed",
			})
		}

		log.Error().Err(err).Msg("oidc callback failed")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication failed",
		})
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

	log.Info().Str("username", user.Username).Msg("owner logged in via oidc")

	return c.Redirect("/")
}
