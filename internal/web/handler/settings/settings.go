// Package settings exposes the site settings over the JSON API: the public
// subset without authentication and the full set plus bulk updates behind
// the access gate.
package settings

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/config"
	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/setting"
	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/social"
	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
	"github.com/oncuhaliyikama/siteadmin/internal/web/handler"
)

const (
	// PublicPath serves the public settings subset.
	PublicPath = "/api/settings"
	// AdminPath serves the full settings surface.
	AdminPath = "/api/admin/settings"
	// SocialPath serves the social links profile.
	SocialPath = AdminPath + "/social"
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Get(PublicPath, s.GetPublic)
	app.Get(AdminPath, s.GetAll)
	app.Patch(AdminPath, s.Patch)
	app.Get(SocialPath, s.GetSocial)
	app.Put(SocialPath, s.PutSocial)

	return nil
}

// settingView is the JSON shape of a setting with its value decoded under
// the declared type.
type settingView struct {
	Key       string             `json:"key"`
	Value     any                `json:"value"`
	Type      models.SettingType `json:"type"`
	Category  string             `json:"category"`
	IsPublic  bool               `json:"isPublic"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func viewOf(s models.Setting) settingView {
	return settingView{
		Key:       s.Key,
		Value:     s.Decoded().Native(),
		Type:      s.Type,
		Category:  s.Category,
		IsPublic:  s.IsPublic,
		UpdatedAt: s.UpdatedAt,
	}
}

// GetPublic serves the public settings subset to unauthenticated callers.
func (s *Service) GetPublic(c *fiber.Ctx) error {
	settings, err := setting.GetPublic(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load public settings")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}

	views := make([]settingView, 0, len(settings))
	for _, item := range settings {
		views = append(views, viewOf(item))
	}

	return c.JSON(fiber.Map{"settings": views})
}

// GetAll serves every setting to authenticated admins.
func (s *Service) GetAll(c *fiber.Ctx) error {
	settings, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}

	views := make([]settingView, 0, len(settings))
	for _, item := range settings {
		views = append(views, viewOf(item))
	}

	return c.JSON(fiber.Map{"settings": views})
}

type patchEntry struct {
	Key   string `json:"key"   validate:"required"`
	Value string `json:"value"`
}

type patchRequest struct {
	Settings []patchEntry `json:"settings" validate:"required,min=1,dive"`
}

type patchError struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// Patch applies a bulk settings upsert. Entries are attempted
// independently; the response always carries the per-item outcome.
func (s *Service) Patch(c *fiber.Ctx) error {
	req := new(patchRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "detail": err.Error()})
	}

	entries := make([]setting.Entry, 0, len(req.Settings))
	for _, e := range req.Settings {
		entries = append(entries, setting.Entry{Key: e.Key, Value: e.Value})
	}

	result, err := setting.SetMany(s.db, entries)
	if err != nil {
		log.Error().Err(err).Msg("failed to apply settings batch")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}

	batchErrors := make([]patchError, 0, len(result.Errors))
	for _, be := range result.Errors {
		batchErrors = append(batchErrors, patchError{Key: be.Key, Error: be.Err.Error()})
	}

	log.Info().
		Int("success_count", result.SuccessCount).
		Int("error_count", len(batchErrors)).
		Msg("settings batch applied")

	return c.JSON(fiber.Map{
		"successCount": result.SuccessCount,
		"errors":       batchErrors,
	})
}

// GetSocial serves the social links profile. A missing profile reads as an
// empty one.
func (s *Service) GetSocial(c *fiber.Ctx) error {
	var profile social.Settings

	err := profile.Load(s.db)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to load social links")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}

	return c.JSON(profile)
}

// PutSocial replaces the social links profile.
func (s *Service) PutSocial(c *fiber.Ctx) error {
	profile := new(social.Settings)
	if err := c.BodyParser(profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "detail": err.Error()})
	}

	if err := profile.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save social links")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}

	return c.JSON(profile)
}
