// Package web wires the fiber application: access logging, the admin
// authentication boundary and the API handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/oncuhaliyikama/siteadmin/internal/blob"
	"github.com/oncuhaliyikama/siteadmin/internal/config"
	"github.com/oncuhaliyikama/siteadmin/internal/identity"
	fiberlogger "github.com/oncuhaliyikama/siteadmin/internal/logger/adapter/fiber"
	"github.com/oncuhaliyikama/siteadmin/internal/media"
	mediahandler "github.com/oncuhaliyikama/siteadmin/internal/web/handler/media"
	settingshandler "github.com/oncuhaliyikama/siteadmin/internal/web/handler/settings"
)

const checkAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration and already
// connected collaborators. The settings store and media binder receive
// their clients here; they never reach for ambient global state.
func New(cfg *config.Config, db *gorm.DB, store blob.Store, gate *identity.Gate) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "siteadmin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAlivePath,
	}))

	// every admin route sits behind the access gate
	app.Use("/api/admin", identity.Middleware(gate))

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	binder := media.NewBinder(store, db)

	// init handlers (they register their own routes)
	if err := settingshandler.Handler.Init(app, cfg, db); err != nil {
		panic(err)
	}

	if err := mediahandler.Handler.Init(app, cfg, db, binder, store); err != nil {
		panic(err)
	}

	app.Get(checkAlivePath, service.checkAlive)

	return service
}

// checkAlive reports liveness; during the shutdown drain it returns 503 so
// load balancers remove this instance.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("ok")
}
