// Package socialnetworks implements the admin endpoints for the owner's
// social-network rows. The rows are not part of the draft/publish cycle;
// they feed the public resolver's social_icons feature gate directly.
package socialnetworks

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/auth"
	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/controller/socialnetwork"
	"github.com/linkforge/linkforge/internal/db/models"
	"github.com/linkforge/linkforge/internal/web/handler"
)

// Path is the admin social-networks collection endpoint.
const Path = handler.AdminAPIPrefix + "/social-networks"

type upsertRequest struct {
	Network  string `json:"network" validate:"required,min=1,max=50"`
	URL      string `json:"url" validate:"omitempty,url"`
	Active   bool   `json:"active"`
	Position int    `json:"position"`
}

// Service is the social-networks handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the social-networks handler.
var Handler = Service{}

// Init initializes the social-networks handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, auth.RequireOwner(), s.List)
	app.Post(Path, auth.RequireOwner(), s.Create)
	app.Put(Path+"/:id", auth.RequireOwner(), s.Update)
	app.Delete(Path+"/:id", auth.RequireOwner(), s.Delete)
}

// List returns every social-network row in admin order.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := socialnetwork.ListAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list social networks")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list social networks",
		})
	}

	return c.JSON(fiber.Map{"socialNetworks": rows})
}

// Create inserts a new social-network row.
func (s *Service) Create(c *fiber.Ctx) error {
	var req upsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid social network",
		})
	}

	sn := &models.SocialNetwork{
		Network:  req.Network,
		URL:      req.URL,
		Active:   req.Active,
		Position: req.Position,
	}

	if err := socialnetwork.Create(s.db, sn); err != nil {
		log.Error().Err(err).Msg("failed to create social network")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create social network",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(sn)
}

// Update replaces a social-network row's fields.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	var req upsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid social network",
		})
	}

	sn, err := socialnetwork.Update(s.db, id, req.Network, req.URL, req.Active, req.Position)
	if err != nil {
		if errors.Is(err, socialnetwork.ErrSocialNetworkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "social network not found",
			})
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to update social network")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update social network",
		})
	}

	return c.JSON(sn)
}

// Delete removes a social-network row.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	if err := socialnetwork.Delete(s.db, id); err != nil {
		if errors.Is(err, socialnetwork.ErrSocialNetworkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "social network not found",
			})
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to delete social network")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete social network",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
