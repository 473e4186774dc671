// Package settings implements the admin endpoints for staging and listing
// page settings. Every write stages a draft; nothing here touches live
// values, only the publish endpoint promotes.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/auth"
	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/controller/setting"
	"github.com/linkforge/linkforge/internal/web/handler"
)

// Path is the admin settings collection endpoint.
const Path = handler.AdminAPIPrefix + "/settings"

// valueShapes maps setting keys with a known format to a validator tag.
// Values for unlisted keys are free-form text.
var valueShapes = map[string]string{
	"accent_color":         "hexcolor",
	"background_color":     "hexcolor",
	"text_color":           "hexcolor",
	"avatar_url":           "url",
	"background_image":     "url",
	"og_image_url":         "url",
	"contact_form_enabled": "oneof=true false",
	"mail_contact_address": "email",
}

type stageRequest struct {
	Value string `json:"value"`
}

type stageBulkRequest struct {
	Entries []setting.Entry `json:"entries" validate:"required,min=1,dive"`
}

// Service is the admin settings handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the admin settings handler.
var Handler = Service{}

// Init initializes the admin settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(Path, auth.RequireOwner(), s.List)
	app.Put(Path, auth.RequireOwner(), s.StageBulk)
	app.Put(Path+"/:key", auth.RequireOwner(), s.Stage)
	app.Delete(Path+"/:key", auth.RequireOwner(), s.Delete)
}

// validateValue rejects malformed values for keys with a known shape before
// any store write. Empty values are allowed: they clear the setting.
func (s *Service) validateValue(key, value string) error {
	shape, ok := valueShapes[key]
	if !ok || value == "" {
		return nil
	}

	return s.validator.Var(value, shape)
}

// List returns every setting with its draft overlay and the pending count.
func (s *Service) List(c *fiber.Ctx) error {
	overlays, err := setting.GetAllWithDraftOverlay(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list settings",
		})
	}

	pending, err := setting.CountPending(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count pending settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to count pending settings",
		})
	}

	return c.JSON(fiber.Map{
		"settings": overlays,
		"pending":  pending,
	})
}

// Stage stages one setting value as a draft.
func (s *Service) Stage(c *fiber.Ctx) error {
	key := c.Params("key")

	var req stageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.validateValue(key, req.Value); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid value for " + key,
			"field": key,
		})
	}

	staged, err := setting.Stage(s.db, key, req.Value)
	if err != nil {
		if errors.Is(err, setting.ErrSettingKeyEmpty) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		log.Error().Err(err).Str("key", key).Msg("failed to stage setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to stage setting",
		})
	}

	log.Info().Str("key", key).Msg("setting staged")

	return c.JSON(fiber.Map{
		"key":      staged.Key,
		"value":    staged.EffectiveValue(),
		"hasDraft": staged.HasDraft(),
	})
}

// StageBulk stages a batch of settings as one logical unit.
func (s *Service) StageBulk(c *fiber.Ctx) error {
	var req stageBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "entries must contain at least one key/value pair",
		})
	}

	// validate everything up front so a malformed entry is never
	// partially applied
	for _, e := range req.Entries {
		if e.Key == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": setting.ErrSettingKeyEmpty.Error(),
			})
		}

		if err := s.validateValue(e.Key, e.Value); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid value for " + e.Key,
				"field": e.Key,
			})
		}
	}

	if err := setting.StageBulk(s.db, req.Entries); err != nil {
		log.Error().Err(err).Msg("failed to stage settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to stage settings",
		})
	}

	log.Info().Int("count", len(req.Entries)).Msg("settings staged")

	return c.JSON(fiber.Map{
		"staged": len(req.Entries),
	})
}

// Delete removes a setting row outright. This bypasses the draft cycle and
// exists for reset/import flows only.
func (s *Service) Delete(c *fiber.Ctx) error {
	key := c.Params("key")

	err := setting.Delete(s.db, key)
	if err != nil {
		switch {
		case errors.Is(err, setting.ErrSettingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "setting not found",
			})
		case errors.Is(err, setting.ErrSettingKeyEmpty):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Error().Err(err).Str("key", key).Msg("failed to delete setting")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete setting",
			})
		}
	}

	log.Info().Str("key", key).Msg("setting deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
