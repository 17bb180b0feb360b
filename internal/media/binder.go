// Package media composes the blob upload gateway and the settings store
// into a single "upload asset and remember its URL" operation.
package media

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/blob"
	"github.com/oncuhaliyikama/siteadmin/internal/db/controller/setting"
	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
)

var (
	// ErrMissingPayload is returned when there is no payload to bind.
	ErrMissingPayload = errors.New("payload is required")
	// ErrMissingTargetKey is returned when no setting key was named.
	ErrMissingTargetKey = errors.New("target key is required")
	// ErrPartialBind marks a bind whose upload succeeded but whose settings
	// write did not. The asset exists; the returned warning carries this so
	// the caller can retry the bind or set the key manually.
	ErrPartialBind = errors.New("asset uploaded but setting was not updated")
)

// BindOptions tune where the uploaded asset is stored and how the target
// setting is created when it does not exist yet.
type BindOptions struct {
	Folder   string
	Name     string
	Category string
	IsPublic bool
}

// BindResult reports a successful bind. Warning is non-nil in the one
// partial-failure state: the upload succeeded but the setting write failed.
type BindResult struct {
	URL       string
	TargetKey string
	Warning   error
}

// Binder couples the blob store with the settings store.
type Binder struct {
	store blob.Store
	db    *gorm.DB
}

// NewBinder creates a Binder around an already connected blob store and
// database handle.
func NewBinder(store blob.Store, db *gorm.DB) *Binder {
	return &Binder{store: store, db: db}
}

// Bind uploads the payload and records its URL under targetKey.
//
// The upload always completes or definitively fails before the settings
// write is attempted, so a setting never points at an asset the blob store
// did not confirm. Upload failures are returned verbatim and leave the
// setting untouched. A failed settings write after a successful upload is
// reported as a success with a warning, never silently swallowed.
func (b *Binder) Bind(ctx context.Context, payload blob.Payload, targetKey string, opts BindOptions) (*BindResult, error) {
	if payload.Size() == 0 {
		return nil, ErrMissingPayload
	}

	if targetKey == "" {
		return nil, ErrMissingTargetKey
	}

	uploaded, err := b.store.Upload(ctx, payload, blob.UploadOptions{
		Folder: opts.Folder,
		Name:   opts.Name,
	})
	if err != nil {
		return nil, err
	}

	result := &BindResult{
		URL:       uploaded.URL,
		TargetKey: targetKey,
	}

	category := opts.Category
	if category == "" {
		category = "media"
	}

	_, err = setting.Upsert(b.db, targetKey, uploaded.URL, setting.Defaults{
		Type:     models.SettingTypeString,
		Category: category,
		IsPublic: opts.IsPublic,
	})
	if err != nil {
		log.Warn().Err(err).
			Str("target_key", targetKey).
			Str("public_id", uploaded.PublicID).
			Msg("asset uploaded but settings write failed")

		result.Warning = errors.Join(ErrPartialBind, err)

		return result, nil
	}

	log.Info().
		Str("target_key", targetKey).
		Str("url", uploaded.URL).
		Msg("asset bound to setting")

	return result, nil
}

// Unbind clears the target setting. The stored asset is left in place: a
// cleared setting can be pointed elsewhere, a deleted blob can not.
func (b *Binder) Unbind(_ context.Context, targetKey string) error {
	if targetKey == "" {
		return ErrMissingTargetKey
	}

	_, err := setting.Clear(b.db, targetKey)

	return err
}
