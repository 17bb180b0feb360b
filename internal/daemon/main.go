// Package daemon owns the process lifecycle: it connects the external
// backends once and hands the connected clients to the core components.
package daemon

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/blob"
	"github.com/oncuhaliyikama/siteadmin/internal/config"
	"github.com/oncuhaliyikama/siteadmin/internal/db/dsn"
	"github.com/oncuhaliyikama/siteadmin/internal/db/models"
	"github.com/oncuhaliyikama/siteadmin/internal/identity"
	"github.com/oncuhaliyikama/siteadmin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Msg("starting web service")

	go d.webService.WaitShutdown()

	return d.webService.Start(addr)
}

// New creates a new Daemon instance with the provided configuration. All
// external backends are connected here and injected into the components
// that use them.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg))

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.AutoMigrate(&models.Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = seed(db); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}

	store := blob.NewS3Store(blob.Config{
		Endpoint:       cfg.Blob.Endpoint,
		Region:         cfg.Blob.Region,
		Bucket:         cfg.Blob.Bucket,
		AccessKey:      cfg.Blob.AccessKey,
		SecretKey:      cfg.Blob.SecretKey,
		PublicURL:      cfg.Blob.PublicURL,
		Folder:         cfg.Blob.Folder,
		MaxUploadBytes: cfg.Blob.MaxUploadBytes,
		AllowedFormats: cfg.Blob.AllowedFormats,
	})

	verifier := identity.NewHTTPVerifier(
		cfg.Identity.VerifyURL,
		time.Duration(cfg.Identity.TimeoutSeconds)*time.Second,
	)

	gate := identity.NewGate(verifier, identity.NewBreakGlass(cfg.Identity.BreakGlassSecret))

	if cfg.Identity.BreakGlassSecret == "" {
		log.Warn().Msg("break-glass credential disabled: admin access requires a reachable identity backend")
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, store, gate),
	}, nil
}
