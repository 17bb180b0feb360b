package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingKey    string
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingKey:    "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			settingKey:    "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingKey:    "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:       "successful get",
			dbParam:    db,
			settingKey: "site_name",
			seedData: []models.Setting{
				{Key: "site_name", Value: "My Site", Type: models.SettingTypeString},
			},
			expectedValue: "My Site",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(tc.dbParam, tc.settingKey)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingKey, setting.Key)
				assert.Equal(t, tc.expectedValue, setting.Value)
			}
		})
	}
}

func TestGetPublic(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{
		{Key: "site_name", Value: "My Site", Type: models.SettingTypeString, IsPublic: true},
		{Key: "homepage_hero_bg", Value: "https://cdn/img.png", Type: models.SettingTypeString, IsPublic: true},
		{Key: "smtp_password", Value: "secret", Type: models.SettingTypeString, IsPublic: false},
		{Key: "admin_email", Value: "a@b.c", Type: models.SettingTypeString, IsPublic: false},
	})

	settings, err := GetPublic(db)
	require.NoError(t, err)
	assert.Len(t, settings, 2)

	// output must be a subset of the public settings, for any store contents
	for _, s := range settings {
		assert.True(t, s.IsPublic, "GetPublic returned a private setting: %s", s.Key)
		assert.NotEqual(t, "smtp_password", s.Key)
	}

	_, err = GetPublic(nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingKey    string
		value         string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingKey:    "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			settingKey:    "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:          "set is update-only",
			dbParam:       db,
			settingKey:    "absent",
			value:         "value",
			expectedError: ErrSettingNotFound,
		},
		{
			name:       "successful update",
			dbParam:    db,
			settingKey: "site_name",
			value:      "New Name",
			seedData: []models.Setting{
				{Key: "site_name", Value: "Old Name", Type: models.SettingTypeString},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Set(tc.dbParam, tc.settingKey, tc.value)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.value, setting.Value)

				stored, err := Get(tc.dbParam, tc.settingKey)
				require.NoError(t, err)
				assert.Equal(t, tc.value, stored.Value)
			}
		})
	}
}

func TestUpsert(t *testing.T) {
	db := setupTestDB(t)

	defaults := Defaults{Type: models.SettingTypeString, Category: "media", IsPublic: true}

	// upsert on a missing key creates it with the defaults
	created, err := Upsert(db, "homepage_hero_bg", "https://cdn/hero.png", defaults)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/hero.png", created.Value)
	assert.Equal(t, models.SettingTypeString, created.Type)
	assert.Equal(t, "media", created.Category)
	assert.True(t, created.IsPublic)

	// a second upsert updates the value and keeps the row unique
	updated, err := Upsert(db, "homepage_hero_bg", "https://cdn/hero2.png", defaults)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/hero2.png", updated.Value)
	assert.Equal(t, created.ID, updated.ID)

	var count int64
	db.Model(&models.Setting{}).Where("`key` = ?", "homepage_hero_bg").Count(&count)
	assert.EqualValues(t, 1, count)

	// round-trip: the decoded value equals what was written
	stored, err := Get(db, "homepage_hero_bg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/hero2.png", stored.Decoded().Str)
}

func TestClear(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{
		{Key: "homepage_hero_bg", Value: "https://cdn/hero.png", Type: models.SettingTypeString},
	})

	cleared, err := Clear(db, "homepage_hero_bg")
	require.NoError(t, err)
	assert.Empty(t, cleared.Value)

	// the row still exists, only its value is gone
	stored, err := Get(db, "homepage_hero_bg")
	require.NoError(t, err)
	assert.Empty(t, stored.Value)

	_, err = Clear(db, "absent")
	require.ErrorIs(t, err, ErrSettingNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{
		{Key: "obsolete", Value: "x", Type: models.SettingTypeString},
	})

	require.NoError(t, Delete(db, "obsolete"))
	require.ErrorIs(t, Delete(db, "obsolete"), ErrSettingNotFound)

	_, err := Get(db, "obsolete")
	require.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSetMany(t *testing.T) {
	db := setupTestDB(t)

	entries := []Entry{
		{Key: "a", Value: "1"},
		{Key: "", Value: "rejected"}, // empty key fails validation
		{Key: "b", Value: "2"},
	}

	result, err := SetMany(db, entries)
	require.NoError(t, err)

	// one failure does not abort the batch
	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "", result.Errors[0].Key)
	require.ErrorIs(t, result.Errors[0].Err, ErrSettingKeyEmpty)

	// the successful entries are independently verifiable
	a, err := Get(db, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", a.Value)

	b, err := Get(db, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", b.Value)
}
