// Package media exposes the media binding surface: upload an asset to the
// blob store and record its URL under a setting key.
package media

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/blob"
	"github.com/oncuhaliyikama/siteadmin/internal/config"
	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/setting"
	"github.com/oncuhaliyikama/siteadmin/internal/media"
	"github.com/oncuhaliyikama/siteadmin/internal/web/handler"
)

const (
	// BindPath uploads an asset and binds it to a setting key.
	BindPath = "/api/admin/media/bind"
	// UnbindPath clears a media setting without touching the asset.
	UnbindPath = "/api/admin/media/unbind"
	// ListPath lists the assets stored under a folder.
	ListPath = "/api/admin/media"
)

// Service is the media handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	binder    *media.Binder
	store     blob.Store
	validator *validator.Validate
}

// Handler is the media handler.
var Handler = Service{}

// Init initializes the media handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, binder *media.Binder, store blob.Store) error {
	if app == nil || cfg == nil || db == nil || binder == nil || store == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.binder = binder
	s.store = store
	s.validator = validator.New()

	app.Post(BindPath, s.Bind)
	app.Post(UnbindPath, s.Unbind)
	app.Get(ListPath, s.List)
	app.Delete(ListPath+"/+", s.Delete)

	return nil
}

type bindRequest struct {
	Payload   string `json:"payload"   validate:"required"`
	TargetKey string `json:"targetKey" validate:"required"`
	Folder    string `json:"folder"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	IsPublic  bool   `json:"isPublic"`
}

// Bind uploads the payload and records its URL under the target key.
func (s *Service) Bind(c *fiber.Ctx) error {
	req := new(bindRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "detail": err.Error()})
	}

	payload, err := blob.PayloadFromString(req.Payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload encoding", "detail": err.Error()})
	}

	result, err := s.binder.Bind(c.Context(), payload, req.TargetKey, media.BindOptions{
		Folder:   req.Folder,
		Name:     req.Name,
		Category: req.Category,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return bindFailure(c, err)
	}

	response := fiber.Map{
		"url":       result.URL,
		"targetKey": result.TargetKey,
	}

	// the one partial-failure state: the asset exists, the setting does
	// not point at it yet. Observable, not an error.
	if result.Warning != nil {
		response["warning"] = result.Warning.Error()
	}

	return c.JSON(response)
}

type unbindRequest struct {
	TargetKey string `json:"targetKey" validate:"required"`
}

// Unbind clears the target setting. The stored asset stays untouched.
func (s *Service) Unbind(c *fiber.Ctx) error {
	req := new(unbindRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "detail": err.Error()})
	}

	if err := s.binder.Unbind(c.Context(), req.TargetKey); err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "setting not found"})
		}

		log.Error().Err(err).Str("target_key", req.TargetKey).Msg("failed to unbind setting")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	}

	return c.JSON(fiber.Map{"targetKey": req.TargetKey})
}

// List lists the assets stored under a folder.
func (s *Service) List(c *fiber.Ctx) error {
	objects, err := s.store.ListByFolder(c.Context(), c.Query("folder"))
	if err != nil {
		return bindFailure(c, err)
	}

	return c.JSON(fiber.Map{"assets": objects})
}

// Delete removes an asset by public ID. This is the explicit asset
// lifecycle action, deliberately separate from Unbind.
func (s *Service) Delete(c *fiber.Ctx) error {
	publicID := c.Params("+")
	if publicID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "public id is required"})
	}

	if err := s.store.Delete(c.Context(), publicID); err != nil {
		return bindFailure(c, err)
	}

	return c.JSON(fiber.Map{"publicId": publicID})
}

// bindFailure maps the gateway error taxonomy onto HTTP statuses so the
// caller can tell "fix your input" from "fix your deployment".
func bindFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, media.ErrMissingPayload),
		errors.Is(err, media.ErrMissingTargetKey),
		errors.Is(err, blob.ErrEmptyPayload),
		errors.Is(err, blob.ErrUnsupportedFormat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, blob.ErrPayloadTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, blob.ErrCredentialsMissing):
		log.Error().Err(err).Msg("blob store is not configured")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "blob store not configured"})
	case errors.Is(err, blob.ErrUpstreamRejected):
		log.Error().Err(err).Msg("blob store rejected the request")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, blob.ErrUpstreamUnreachable):
		log.Error().Err(err).Msg("blob store unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "blob store unreachable"})
	default:
		log.Error().Err(err).Msg("media operation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
