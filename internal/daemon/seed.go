package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/setting"
	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
)

// defaultSettings are created once on first start. Existing keys are never
// overwritten, so the seed is safe to run on every boot.
var defaultSettings = []models.Setting{
	{Key: "site_name", Value: "Oncu Hali Yikama", Type: models.SettingTypeString, Category: "general", IsPublic: true},
	{Key: "site_tagline", Value: "", Type: models.SettingTypeString, Category: "general", IsPublic: true},
	{Key: "contact_email", Value: "", Type: models.SettingTypeString, Category: "contact", IsPublic: true},
	{Key: "contact_phone", Value: "", Type: models.SettingTypeString, Category: "contact", IsPublic: true},
	{Key: "contact_address", Value: "", Type: models.SettingTypeString, Category: "contact", IsPublic: true},
	{Key: "homepage_hero_bg", Value: "", Type: models.SettingTypeString, Category: "media", IsPublic: true},
	{Key: "homepage_hero_title", Value: "", Type: models.SettingTypeString, Category: "homepage", IsPublic: true},
	{Key: "gallery_images", Value: "[]", Type: models.SettingTypeJSON, Category: "media", IsPublic: true},
	{Key: "maintenance_mode", Value: "false", Type: models.SettingTypeBoolean, Category: "general", IsPublic: true},
	{Key: "max_gallery_items", Value: "12", Type: models.SettingTypeNumber, Category: "general", IsPublic: false},
	{Key: "notification_email", Value: "", Type: models.SettingTypeString, Category: "contact", IsPublic: false},
}

// seed inserts the default settings, skipping keys that already exist.
func seed(db *gorm.DB) error {
	for _, item := range defaultSettings {
		_, err := setting.Create(db, item.Key, item.Value, setting.Defaults{
			Type:     item.Type,
			Category: item.Category,
			IsPublic: item.IsPublic,
		})
		if errors.Is(err, setting.ErrSettingAlreadyExists) {
			continue
		}
		if err != nil {
			return err
		}

		log.Debug().Str("key", item.Key).Msg("seeded default setting")
	}

	return nil
}
