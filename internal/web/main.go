// Package web assembles the fiber application: middleware, handler
// registration and server lifecycle.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/config"
	fiberlogger "github.com/linkforge/linkforge/internal/logger/adapter/fiber"
	"github.com/linkforge/linkforge/internal/publish"
	"github.com/linkforge/linkforge/internal/web/handler/admin/blocks"
	"github.com/linkforge/linkforge/internal/web/handler/admin/publishing"
	"github.com/linkforge/linkforge/internal/web/handler/admin/settings"
	"github.com/linkforge/linkforge/internal/web/handler/admin/socialnetworks"
	"github.com/linkforge/linkforge/internal/web/handler/login"
	"github.com/linkforge/linkforge/internal/web/handler/logout"
	oidchandler "github.com/linkforge/linkforge/internal/web/handler/oidc"
	"github.com/linkforge/linkforge/internal/web/handler/public"
)

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

// WaitShutdown waits for graceful shutdown of linkforge.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

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

// publicCacheMiddleware builds the response cache for the public endpoints.
// Entries are keyed by request path so they line up with the keys the
// publish flow purges.
func publicCacheMiddleware(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	if !cfg.Webserver.Cache.Enabled || storage == nil {
		return nil
	}

	ttl := time.Duration(cfg.Webserver.Cache.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return cache.New(
		cache.Config{
			Storage:    storage,
			Expiration: ttl,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.Path()
			},
			Methods: []string{fiber.MethodGet},
		},
	)
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, cacheStorage fiber.Storage, coordinator *publish.Coordinator) *Service {
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
			AppName:        "LinkForge",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// http access log
	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log}))

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}

	service.alive.Store(true)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	// init handlers (they register their own routes)
	login.Handler.Init(app, cfg, db)
	logout.Init(app)

	if cfg.OIDC.Enabled {
		oidchandler.Handler.Init(app, cfg, db)
	}

	settings.Handler.Init(app, cfg, db)
	blocks.Handler.Init(app, cfg, db)
	socialnetworks.Handler.Init(app, cfg, db)
	publishing.Handler.Init(app, cfg, db, coordinator)
	public.Handler.Init(app, cfg, db, publicCacheMiddleware(cfg, cacheStorage))

	return service
}

// ListenAddr builds the listen address from the configured port.
func ListenAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%d", cfg.Webserver.Port)
}
