// Package blob implements the upload gateway to the remote blob store.
// It validates and normalizes asset payloads before any network call and
// maps backend failures onto a small, caller-distinguishable error set.
package blob

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCredentialsMissing is returned when the blob store is not configured.
	ErrCredentialsMissing = errors.New("blob store credentials are not configured")
	// ErrUnsupportedFormat is returned when the payload format is not in the allow-list.
	ErrUnsupportedFormat = errors.New("unsupported payload format")
	// ErrPayloadTooLarge is returned when the payload exceeds the configured maximum.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	// ErrUpstreamRejected is returned when the blob store rejected the request.
	ErrUpstreamRejected = errors.New("blob store rejected the request")
	// ErrUpstreamUnreachable is returned when the blob store can not be reached.
	ErrUpstreamUnreachable = errors.New("blob store unreachable")
	// ErrEmptyPayload is returned when there is nothing to upload.
	ErrEmptyPayload = errors.New("payload is empty")
)

// UploadOptions select where and under which name an asset is stored.
type UploadOptions struct {
	Folder string // overrides the configured default folder
	Name   string // desired base name, a unique suffix is always appended
}

// UploadResult describes a successfully stored asset.
type UploadResult struct {
	URL       string
	PublicID  string
	Format    string
	SizeBytes int64
	Width     int // 0 when not an image or not detectable
	Height    int
	CreatedAt time.Time
}

// ObjectInfo describes a stored object when listing a folder.
type ObjectInfo struct {
	PublicID  string
	SizeBytes int64
	UpdatedAt time.Time
}

// Store is the blob store gateway consumed by the media binder.
type Store interface {
	// Upload validates the payload and stores it. Validation failures are
	// returned before any network call is made.
	Upload(ctx context.Context, payload Payload, opts UploadOptions) (*UploadResult, error)

	// Delete removes an object by its public ID.
	Delete(ctx context.Context, publicID string) error

	// ListByFolder lists the objects stored under a folder.
	ListByFolder(ctx context.Context, folder string) ([]ObjectInfo, error)
}
