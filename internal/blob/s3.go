package blob

import (
	"bytes"
	"context"
	"image"
	"strings"
	"time"

	// register image header decoders for dimension detection
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxUploadBytes caps accepted payloads when no limit is configured.
	DefaultMaxUploadBytes = 10 << 20 // 10 MiB

	// defaultFolder is used when neither the config nor the caller names one.
	defaultFolder = "site"

	// requestTimeout bounds every call to the blob store. A blocked upstream
	// fails closed instead of hanging the request.
	requestTimeout = 30 * time.Second
)

// DefaultAllowedFormats is the built-in upload format allow-list.
var DefaultAllowedFormats = []string{"jpg", "jpeg", "png", "gif", "pdf", "doc", "docx"}

// Config holds the S3 store settings. The daemon maps the application
// config onto it so this package stays independently constructible.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
	Folder    string

	MaxUploadBytes int64
	AllowedFormats []string
}

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store implements Store on an S3-compatible blob backend.
type S3Store struct {
	api     s3API
	cfg     Config
	allowed map[string]bool
}

// NewS3Store creates a store for a remote S3-compatible endpoint using
// static credentials and path-style URLs.
func NewS3Store(cfg Config) *S3Store {
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(_, region string, _ ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				SigningRegion:     region,
			}, nil
		})

	awsCfg := aws.Config{
		Region:                      cfg.Region,
		Credentials:                 credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		EndpointResolverWithOptions: customResolver,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true // path-style URLs for S3-compatible stores
	})

	return newS3Store(client, cfg)
}

func newS3Store(api s3API, cfg Config) *S3Store {
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if len(cfg.AllowedFormats) == 0 {
		cfg.AllowedFormats = DefaultAllowedFormats
	}

	if cfg.Folder == "" {
		cfg.Folder = defaultFolder
	}

	allowed := make(map[string]bool, len(cfg.AllowedFormats))
	for _, f := range cfg.AllowedFormats {
		allowed[strings.ToLower(f)] = true
	}

	return &S3Store{api: api, cfg: cfg, allowed: allowed}
}

// Upload validates the payload and stores it under a unique public ID.
func (s *S3Store) Upload(ctx context.Context, payload Payload, opts UploadOptions) (*UploadResult, error) {
	if s.cfg.AccessKey == "" || s.cfg.SecretKey == "" {
		return nil, ErrCredentialsMissing
	}

	format, err := s.validate(payload)
	if err != nil {
		return nil, err
	}

	if IsImageFormat(format) {
		// S3-compatible stores have no transform API; store-side quality
		// optimization is a no-op here and that is non-fatal.
		log.Debug().Str("format", format).Msg("store-side image optimization not supported, skipping")
	}

	publicID := s.publicID(format, opts)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(publicID),
		Body:          bytes.NewReader(payload.Bytes()),
		ContentLength: aws.Int64(payload.Size()),
		ContentType:   aws.String(contentType(format)),
	})
	if err != nil {
		return nil, classifyUpstreamError(err)
	}

	width, height := imageDimensions(payload, format)

	result := &UploadResult{
		URL:       s.publicURL(publicID),
		PublicID:  publicID,
		Format:    format,
		SizeBytes: payload.Size(),
		Width:     width,
		Height:    height,
		CreatedAt: time.Now().UTC(),
	}

	log.Info().
		Str("public_id", result.PublicID).
		Str("format", result.Format).
		Int64("size_bytes", result.SizeBytes).
		Msg("asset uploaded to blob store")

	return result, nil
}

// Delete removes an object by its public ID.
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if s.cfg.AccessKey == "" || s.cfg.SecretKey == "" {
		return ErrCredentialsMissing
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return classifyUpstreamError(err)
	}

	return nil
}

// ListByFolder lists the objects stored under a folder.
func (s *S3Store) ListByFolder(ctx context.Context, folder string) ([]ObjectInfo, error) {
	if s.cfg.AccessKey == "" || s.cfg.SecretKey == "" {
		return nil, ErrCredentialsMissing
	}

	if folder == "" {
		folder = s.cfg.Folder
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(folder + "/"),
	})
	if err != nil {
		return nil, classifyUpstreamError(err)
	}

	objects := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		info := ObjectInfo{
			PublicID:  aws.ToString(obj.Key),
			SizeBytes: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			info.UpdatedAt = *obj.LastModified
		}

		objects = append(objects, info)
	}

	return objects, nil
}

// validate applies the boundary checks in order: format first, then size.
// Nothing is sent upstream when validation fails.
func (s *S3Store) validate(payload Payload) (string, error) {
	if payload.Size() == 0 {
		return "", ErrEmptyPayload
	}

	format := payload.Format()
	if !s.allowed[format] {
		return "", errors.Wrap(ErrUnsupportedFormat, format)
	}

	if payload.Size() > s.cfg.MaxUploadBytes {
		return "", errors.Wrapf(ErrPayloadTooLarge, "%d bytes, limit %d", payload.Size(), s.cfg.MaxUploadBytes)
	}

	return format, nil
}

func (s *S3Store) publicID(format string, opts UploadOptions) string {
	folder := opts.Folder
	if folder == "" {
		folder = s.cfg.Folder
	}

	name := sanitizeName(opts.Name)
	if name == "" {
		name = "asset"
	}

	// unique suffix so re-uploads under the same desired name never collide
	suffix := uuid.NewString()[:8]

	return folder + "/" + name + "-" + suffix + "." + format
}

func (s *S3Store) publicURL(publicID string) string {
	return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + publicID
}

// sanitizeName keeps the desired object name URL and key safe.
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}

	return strings.Trim(b.String(), "-")
}

var formatContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func contentType(format string) string {
	if ct, ok := formatContentTypes[format]; ok {
		return ct
	}

	return "application/octet-stream"
}

// imageDimensions reads width and height from the image header. Failure is
// not an error, the result simply carries no dimensions.
func imageDimensions(payload Payload, format string) (int, int) {
	if !IsImageFormat(format) {
		return 0, 0
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(payload.Bytes()))
	if err != nil {
		return 0, 0
	}

	return cfg.Width, cfg.Height
}

// classifyUpstreamError separates "the store said no" from "the store is
// not answering" so callers can tell deployment problems from input ones.
func classifyUpstreamError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return errors.Wrap(ErrUpstreamRejected, apiErr.ErrorCode())
	}

	return errors.Wrap(ErrUpstreamUnreachable, err.Error())
}
