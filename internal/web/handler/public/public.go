// Package public implements the two unauthenticated read endpoints behind
// the edge cache. Both are parameterless and read live/published data only:
// drafts are invisible here by construction, because the queries go through
// GetLive and the visibility resolver.
package public

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/controller/block"
	"github.com/linkforge/linkforge/internal/db/controller/setting"
	"github.com/linkforge/linkforge/internal/db/controller/socialnetwork"
	"github.com/linkforge/linkforge/internal/edgecache"
	"github.com/linkforge/linkforge/internal/visibility"
)

// Endpoint paths are shared with the cache invalidator: the exact path is
// the cache key.
const (
	SettingsPath = edgecache.PublicSettingsPath
	BlocksPath   = edgecache.PublicBlocksPath
)

// Service is the public read handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	// now is injected so tests can pin the clock; defaults to time.Now.
	now func() time.Time
}

// Handler is the public read handler.
var Handler = Service{}

// Init initializes the public read handler. The cacheMiddleware slot takes
// the response-cache middleware (nil when caching is disabled).
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, cacheMiddleware fiber.Handler) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg("app or cfg or db is nil")
		return
	}

	s.cfg = cfg
	s.db = db
	s.now = time.Now

	if cacheMiddleware != nil {
		app.Get(SettingsPath, cacheMiddleware, s.GetSettings)
		app.Get(BlocksPath, cacheMiddleware, s.GetBlocks)
		return
	}

	app.Get(SettingsPath, s.GetSettings)
	app.Get(BlocksPath, s.GetBlocks)
}

// GetSettings returns the allow-listed live settings. Draft values and
// non-public keys never appear here.
func (s *Service) GetSettings(c *fiber.Ctx) error {
	live, err := setting.GetLive(s.db, visibility.PublicSettingKeys())
	if err != nil {
		log.Error().Err(err).Msg("failed to read public settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read settings",
		})
	}

	return c.JSON(fiber.Map{"settings": live})
}

// GetBlocks returns the blocks an anonymous visitor may see right now.
func (s *Service) GetBlocks(c *fiber.Ctx) error {
	view, err := s.resolve(s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve public blocks")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read blocks",
		})
	}

	return c.JSON(fiber.Map{"blocks": view.Blocks})
}

// resolve gathers the resolver's three inputs and runs it for the given
// instant.
func (s *Service) resolve(now time.Time) (visibility.View, error) {
	live, err := setting.GetLive(s.db, nil)
	if err != nil {
		return visibility.View{}, err
	}

	all, err := block.ListAll(s.db)
	if err != nil {
		return visibility.View{}, err
	}

	activeSocial, err := socialnetwork.CountActive(s.db)
	if err != nil {
		return visibility.View{}, err
	}

	return visibility.Resolve(now, live, all, activeSocial), nil
}
