package config

import (
	"github.com/oncuhaliyikama/siteadmin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Blob      Blob
	Identity  Identity
	Log       logger.Log
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}

// Blob holds the remote blob store configuration.
type Blob struct {
	Endpoint  string // S3-compatible endpoint URL
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // base URL assets are served from
	Folder    string // default upload folder

	// MaxUploadBytes caps accepted payload size. 0 means the built-in
	// default of 10 MiB.
	MaxUploadBytes int64

	// AllowedFormats overrides the built-in upload format allow-list.
	AllowedFormats []string
}

// Identity holds the external identity verification settings.
type Identity struct {
	VerifyURL      string // verification endpoint of the identity backend
	TimeoutSeconds int    // per-call timeout, 0 means the built-in default

	// BreakGlassSecret signs the emergency admin credential used when the
	// identity backend is unreachable. Empty disables break-glass access.
	BreakGlassSecret string
}
