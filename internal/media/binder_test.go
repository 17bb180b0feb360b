package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/blob"
	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/setting"
	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// fakeStore is an in-memory blob.Store.
type fakeStore struct {
	uploadErr   error
	uploadCalls int
	result      *blob.UploadResult
}

func (f *fakeStore) Upload(_ context.Context, _ blob.Payload, _ blob.UploadOptions) (*blob.UploadResult, error) {
	f.uploadCalls++

	if f.uploadErr != nil {
		return nil, f.uploadErr
	}

	return f.result, nil
}

func (f *fakeStore) Delete(_ context.Context, _ string) error {
	return nil
}

func (f *fakeStore) ListByFolder(_ context.Context, _ string) ([]blob.ObjectInfo, error) {
	return nil, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(&models.Setting{}), "failed to migrate test database")

	return db
}

func TestBind(t *testing.T) {
	ctx := context.Background()

	uploaded := &blob.UploadResult{
		URL:      "https://media.example.com/site/hero-abc12345.png",
		PublicID: "site/hero-abc12345.png",
		Format:   "png",
	}

	t.Run("upload then settings write", func(t *testing.T) {
		db := setupTestDB(t)
		store := &fakeStore{result: uploaded}
		binder := NewBinder(store, db)

		// pre-existing empty setting, like a freshly seeded site
		_, err := setting.Upsert(db, "homepage_hero_bg", "", setting.Defaults{Type: models.SettingTypeString})
		require.NoError(t, err)

		result, err := binder.Bind(ctx, blob.PayloadFromBytes(pngHeader), "homepage_hero_bg", BindOptions{IsPublic: true})
		require.NoError(t, err)
		require.Nil(t, result.Warning)
		assert.Equal(t, uploaded.URL, result.URL)
		assert.Equal(t, "homepage_hero_bg", result.TargetKey)

		// the setting now holds exactly the URL the gateway returned
		stored, err := setting.Get(db, "homepage_hero_bg")
		require.NoError(t, err)
		assert.Equal(t, uploaded.URL, stored.Value)
	})

	t.Run("bind creates missing setting with defaults", func(t *testing.T) {
		db := setupTestDB(t)
		binder := NewBinder(&fakeStore{result: uploaded}, db)

		_, err := binder.Bind(ctx, blob.PayloadFromBytes(pngHeader), "about_banner", BindOptions{Category: "banners"})
		require.NoError(t, err)

		stored, err := setting.Get(db, "about_banner")
		require.NoError(t, err)
		assert.Equal(t, "banners", stored.Category)
		assert.Equal(t, models.SettingTypeString, stored.Type)
	})

	t.Run("missing payload rejected without any attempt", func(t *testing.T) {
		db := setupTestDB(t)
		store := &fakeStore{result: uploaded}
		binder := NewBinder(store, db)

		_, err := binder.Bind(ctx, blob.PayloadFromBytes(nil), "homepage_hero_bg", BindOptions{})
		require.ErrorIs(t, err, ErrMissingPayload)
		assert.Zero(t, store.uploadCalls)
	})

	t.Run("missing target key rejected without any attempt", func(t *testing.T) {
		db := setupTestDB(t)
		store := &fakeStore{result: uploaded}
		binder := NewBinder(store, db)

		_, err := binder.Bind(ctx, blob.PayloadFromBytes(pngHeader), "", BindOptions{})
		require.ErrorIs(t, err, ErrMissingTargetKey)
		assert.Zero(t, store.uploadCalls)
	})

	t.Run("upload failure leaves the setting unchanged", func(t *testing.T) {
		db := setupTestDB(t)
		_, err := setting.Upsert(db, "homepage_hero_bg", "previous-url", setting.Defaults{Type: models.SettingTypeString})
		require.NoError(t, err)

		binder := NewBinder(&fakeStore{uploadErr: blob.ErrPayloadTooLarge}, db)

		_, err = binder.Bind(ctx, blob.PayloadFromBytes(pngHeader), "homepage_hero_bg", BindOptions{})
		require.ErrorIs(t, err, blob.ErrPayloadTooLarge)

		stored, err := setting.Get(db, "homepage_hero_bg")
		require.NoError(t, err)
		assert.Equal(t, "previous-url", stored.Value)
	})

	t.Run("settings write failure reports partial bind", func(t *testing.T) {
		db := setupTestDB(t)
		binder := NewBinder(&fakeStore{result: uploaded}, db)

		// drop the table so the settings write fails after the upload
		require.NoError(t, db.Migrator().DropTable(&models.Setting{}))

		result, err := binder.Bind(ctx, blob.PayloadFromBytes(pngHeader), "homepage_hero_bg", BindOptions{})
		require.NoError(t, err)
		require.NotNil(t, result.Warning)
		require.ErrorIs(t, result.Warning, ErrPartialBind)
		assert.Equal(t, uploaded.URL, result.URL)
	})
}

func TestUnbind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	binder := NewBinder(&fakeStore{}, db)

	_, err := setting.Upsert(db, "homepage_hero_bg", "https://media.example.com/x.png", setting.Defaults{Type: models.SettingTypeString})
	require.NoError(t, err)

	require.NoError(t, binder.Unbind(ctx, "homepage_hero_bg"))

	stored, err := setting.Get(db, "homepage_hero_bg")
	require.NoError(t, err)
	assert.Empty(t, stored.Value)

	require.ErrorIs(t, binder.Unbind(ctx, ""), ErrMissingTargetKey)
	_, err = setting.Get(db, "homepage_hero_bg")
	require.NoError(t, err)

	require.ErrorIs(t, binder.Unbind(ctx, "absent"), setting.ErrSettingNotFound)
}
