// Package blocks implements the admin endpoints for content blocks: create,
// partial update, reorder, enable toggle, delete and the draft-indicator
// list. Every mutation except delete re-enters draft state.
package blocks

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/auth"
	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/controller/block"
	"github.com/linkforge/linkforge/internal/db/models"
	"github.com/linkforge/linkforge/internal/web/handler"
)

// Path is the admin blocks collection endpoint.
const Path = handler.AdminAPIPrefix + "/blocks"

type createRequest struct {
	Type           models.BlockType `json:"type" validate:"required"`
	Title          string           `json:"title"`
	URL            string           `json:"url" validate:"omitempty,url"`
	Icon           string           `json:"icon"`
	EmbedType      string           `json:"embedType"`
	EmbedURL       string           `json:"embedUrl" validate:"omitempty,url"`
	SocialIcons    string           `json:"socialIcons"`
	Config         string           `json:"config"`
	IsEnabled      *bool            `json:"isEnabled"`
	Position       int              `json:"position"`
	ScheduledStart *time.Time       `json:"scheduledStart"`
	ScheduledEnd   *time.Time       `json:"scheduledEnd"`
}

type reorderRequest struct {
	Positions []block.PositionUpdate `json:"positions" validate:"required,min=1"`
}

// Service is the admin blocks handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the admin blocks handler.
var Handler = Service{}

// Init initializes the admin blocks handler.
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
	app.Put(Path+"/reorder", auth.RequireOwner(), s.Reorder)
	app.Patch(Path+"/:id", auth.RequireOwner(), s.Update)
	app.Post(Path+"/:id/toggle", auth.RequireOwner(), s.Toggle)
	app.Delete(Path+"/:id", auth.RequireOwner(), s.Delete)
}

func blockID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

// List returns all blocks in admin order, drafts and disabled included.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := block.ListAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list blocks")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list blocks",
		})
	}

	drafts, err := block.CountDrafts(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count draft blocks")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to count draft blocks",
		})
	}

	return c.JSON(fiber.Map{
		"blocks":  all,
		"pending": drafts,
	})
}

// Create inserts a new block in draft state.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	b := &models.Block{
		Type:           req.Type,
		Title:          req.Title,
		URL:            req.URL,
		Icon:           req.Icon,
		EmbedType:      req.EmbedType,
		EmbedURL:       req.EmbedURL,
		SocialIcons:    req.SocialIcons,
		Config:         req.Config,
		IsEnabled:      enabled,
		Position:       req.Position,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	}

	if err := block.Create(s.db, b); err != nil {
		if errors.Is(err, block.ErrInvalidBlockType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
				"field": "type",
			})
		}

		log.Error().Err(err).Msg("failed to create block")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create block",
		})
	}

	log.Info().Uint64("id", b.ID).Str("type", string(b.Type)).Msg("block created")

	return c.Status(fiber.StatusCreated).JSON(b)
}

// Update merges partial fields into a block; the block re-enters draft.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := blockID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid block id",
		})
	}

	var fields block.Fields
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if fields.URL != nil && *fields.URL != "" {
		if err := s.validator.Var(*fields.URL, "url"); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid url",
				"field": "url",
			})
		}
	}

	b, err := block.Update(s.db, id, fields)
	if err != nil {
		if errors.Is(err, block.ErrBlockNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to update block")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update block",
		})
	}

	return c.JSON(b)
}

// Reorder applies a batch of position updates; every touched block
// re-enters draft.
func (s *Service) Reorder(c *fiber.Ctx) error {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return validationError(c, err)
	}

	if err := block.Reorder(s.db, req.Positions); err != nil {
		if errors.Is(err, block.ErrBlockNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Msg("failed to reorder blocks")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to reorder blocks",
		})
	}

	log.Info().Int("count", len(req.Positions)).Msg("blocks reordered")

	return c.JSON(fiber.Map{
		"reordered": len(req.Positions),
	})
}

// Toggle flips the enable switch; the block re-enters draft.
func (s *Service) Toggle(c *fiber.Ctx) error {
	id, err := blockID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid block id",
		})
	}

	b, err := block.ToggleEnabled(s.db, id)
	if err != nil {
		if errors.Is(err, block.ErrBlockNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to toggle block")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to toggle block",
		})
	}

	return c.JSON(b)
}

// Delete removes a block immediately. Deletion is not staged and is not part
// of the draft/publish cycle.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := blockID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid block id",
		})
	}

	if err := block.Delete(s.db, id); err != nil {
		if errors.Is(err, block.ErrBlockNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to delete block")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete block",
		})
	}

	log.Info().Uint64("id", id).Msg("block deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "block not found",
	})
}

func validationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'",
			"field": ve.Field(),
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request",
	})
}
