// Package social stores the site's social media links as a single typed
// JSON setting so the profile can be loaded and saved as one unit.
package social

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/setting"
	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
)

const (
	// SettingKeySocialLinks is the key used to store the social links profile
	// in the database.
	SettingKeySocialLinks = "social_links"
)

type (
	// Settings represents the site's social media profile.
	Settings struct {
		FacebookURL  string `form:"facebook_url"  json:"facebookUrl"  validate:"omitempty,url"`
		InstagramURL string `form:"instagram_url" json:"instagramUrl" validate:"omitempty,url"`
		TwitterURL   string `form:"twitter_url"   json:"twitterUrl"   validate:"omitempty,url"`
		WhatsAppURL  string `form:"whatsapp_url"  json:"whatsappUrl"  validate:"omitempty,url"`
	}
)

// Load loads the social links profile from the database.
func (p *Settings) Load(db *gorm.DB) error {
	s, err := setting.Get(db, SettingKeySocialLinks)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s.Value), p)
}

// Save saves the social links profile to the database. The setting is
// created on first save and updated afterwards.
func (p *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = setting.Upsert(db, SettingKeySocialLinks, string(data), setting.Defaults{
		Type:     models.SettingTypeJSON,
		Category: "social",
		IsPublic: true,
	})

	return err
}
