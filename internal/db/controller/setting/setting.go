// Package setting implements the typed key/value settings store.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
)

const (
	keyQueryPattern = "`key` = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to access a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Defaults describe how a setting is created when an upsert misses.
type Defaults struct {
	Type     models.SettingType
	Category string
	IsPublic bool
}

// Get retrieves a setting by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetAll retrieves all settings from the database.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetPublic retrieves the settings marked public. The result is safe to
// serve to unauthenticated callers.
func GetPublic(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Where("is_public = ?", true).Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Create creates a new setting in the database.
func Create(db *gorm.DB, key, value string, defaults Defaults) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	// Check if setting already exists
	var existing models.Setting
	result := db.Where(keyQueryPattern, key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	settingType := defaults.Type
	if settingType == "" {
		settingType = models.SettingTypeString
	}

	setting := &models.Setting{
		Key:      key,
		Value:    value,
		Type:     settingType,
		Category: defaults.Category,
		IsPublic: defaults.IsPublic,
	}

	result = db.Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Set updates the value of an existing setting. Unlike Upsert it fails with
// ErrSettingNotFound when the key is absent.
func Set(db *gorm.DB, key, value string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	setting.Value = value
	result = db.Save(&setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return &setting, nil
}

// Upsert creates the setting with the given defaults if the key is absent,
// otherwise it updates the value like Set.
func Upsert(db *gorm.DB, key, value string, defaults Defaults) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	setting, err := Set(db, key, value)
	if errors.Is(err, ErrSettingNotFound) {
		return Create(db, key, value, defaults)
	}
	if err != nil {
		return nil, err
	}

	return setting, nil
}

// Clear sets the value of an existing setting to the empty string. It is
// distinct from Delete: a cleared setting can be pointed elsewhere later.
func Clear(db *gorm.DB, key string) (*models.Setting, error) {
	return Set(db, key, "")
}

// Delete removes a setting by key. This is an explicit administrative
// action; normal operation never hard-deletes settings.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Entry is a single key/value pair for SetMany.
type Entry struct {
	Key   string
	Value string
}

// BatchError records the failure of a single SetMany entry.
type BatchError struct {
	Key string
	Err error
}

// BatchResult reports the per-item outcome of SetMany. Partial success is
// never hidden behind an aggregate boolean.
type BatchResult struct {
	SuccessCount int
	Errors       []BatchError
}

// SetMany upserts each entry independently. One failing entry does not
// abort the batch; every failure is reported next to its key.
func SetMany(db *gorm.DB, entries []Entry) (*BatchResult, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	result := &BatchResult{}

	for _, entry := range entries {
		_, err := Upsert(db, entry.Key, entry.Value, Defaults{Type: models.SettingTypeString, Category: "general"})
		if err != nil {
			result.Errors = append(result.Errors, BatchError{Key: entry.Key, Err: err})
			continue
		}

		result.SuccessCount++
	}

	return result, nil
}
