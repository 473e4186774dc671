// Package daemon wires the database, session store, edge cache and web
// service into a runnable unit.
package daemon

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/linkforge/linkforge/internal/config"
	"github.com/linkforge/linkforge/internal/db/dsn"
	"github.com/linkforge/linkforge/internal/db/models"
	"github.com/linkforge/linkforge/internal/edgecache"
	"github.com/linkforge/linkforge/internal/publish"
	"github.com/linkforge/linkforge/internal/web"
	"github.com/linkforge/linkforge/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it stops.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(web.ListenAddr(d.cfg))
}

func openDB(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.DB.Engine {
	case config.DBEnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case config.DBEngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	return db
}

// newStorage builds a fiber storage backed by the configured database
// engine. SQLite deployments get an in-process store instead of a table,
// the embedded engine is single-node anyway.
func newStorage(cfg *config.Config, table string, ttl time.Duration) fiber.Storage {
	switch cfg.DB.Engine {
	case config.DBEnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         table,
		})
	case config.DBEngineSQLite:
		return edgecache.NewMemoryStorage(ttl)
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         table,
		})
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := openDB(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.Block{},
		&models.SocialNetwork{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	// Initialize fiber session store
	session.Init(newStorage(cfg, "sessions", cfg.Webserver.Session.ExpiryTime))

	// Response cache for the public endpoints, purged on publish.
	var cacheStorage fiber.Storage
	if cfg.Webserver.Cache.Enabled {
		cacheStorage = newStorage(
			cfg,
			"edge_cache",
			time.Duration(cfg.Webserver.Cache.TTLSeconds)*time.Second,
		)
	}

	coordinator := publish.NewCoordinator(db, edgecache.NewInvalidator(cacheStorage))

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, cacheStorage, coordinator),
	}
}
