// Package publishing exposes the owner's publish action and the pending
// counter. Publish promotes every staged setting and draft block in one
// step; a store failure mid-run surfaces as 500 so the admin UI can prompt a
// retry, which is safe because re-publishing is idempotent.
package publishing

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/auth"
	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/publish"
	"github.com/linkforge/linkforge/internal/web/handler"
)

const (
	// Path is the publish endpoint.
	Path = handler.AdminAPIPrefix + "/publish"
	// PendingPath is the pending-changes counter endpoint.
	PendingPath = handler.AdminAPIPrefix + "/pending"
)

// Service is the publishing handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	coordinator *publish.Coordinator
}

// Handler is the publishing handler.
var Handler = Service{}

// Init initializes the publishing handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, coordinator *publish.Coordinator) {
	if app == nil || cfg == nil || db == nil || coordinator == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.coordinator = coordinator

	app.Post(Path, auth.RequireOwner(), s.Publish)
	app.Get(PendingPath, auth.RequireOwner(), s.Pending)
}

// Publish promotes all staged content and purges the public cache.
func (s *Service) Publish(c *fiber.Ctx) error {
	summary, err := s.coordinator.PublishAll()
	if err != nil {
		log.Error().Err(err).
			Int64("settingsPublished", summary.SettingsPublished).
			Int64("blocksPublished", summary.BlocksPublished).
			Msg("publish failed")

		// already-promoted rows stand; retrying is safe
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "publish failed, try again",
			"retry": true,
		})
	}

	log.Info().
		Int64("settingsPublished", summary.SettingsPublished).
		Int64("blocksPublished", summary.BlocksPublished).
		Msg("published")

	return c.JSON(summary)
}

// Pending returns the staged settings and draft blocks counts for the admin
// UI's "N unpublished changes" badge.
func (s *Service) Pending(c *fiber.Ctx) error {
	pending, err := s.coordinator.CountPending()
	if err != nil {
		log.Error().Err(err).Msg("failed to count pending changes")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to count pending changes",
		})
	}

	return c.JSON(pending)
}
