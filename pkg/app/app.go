// Package app owns the storefront's process-wide resources.
//
// An Application moves through three states. Boot opens the database,
// applies migrations, runs the idempotent seeders and wires every service;
// Shutdown releases them in reverse order:
//
//	a := app.New(app.ConfigFromEnv())
//	if err := a.Boot(ctx); err != nil { ... }
//	defer a.Shutdown(context.Background())
//	err := a.Serve(ctx)
//
// Nothing here is a package global: tests build as many applications as
// they like, each over its own database.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/arstoys/app/repositories"
	"github.com/shashiranjanraj/arstoys/app/services"
	"github.com/shashiranjanraj/arstoys/config"
	"github.com/shashiranjanraj/arstoys/database/seeders"
	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/cache"
	"github.com/shashiranjanraj/arstoys/pkg/database"
	"github.com/shashiranjanraj/arstoys/pkg/event"
	"github.com/shashiranjanraj/arstoys/pkg/images"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/middleware"
	"github.com/shashiranjanraj/arstoys/pkg/migration"
	"github.com/shashiranjanraj/arstoys/pkg/router"
	"github.com/shashiranjanraj/arstoys/pkg/sse"
	"github.com/shashiranjanraj/arstoys/pkg/storage"
	"github.com/shashiranjanraj/arstoys/pkg/workerpool"
	"github.com/shashiranjanraj/arstoys/pkg/ws"

	_ "github.com/shashiranjanraj/arstoys/database/migrations" // registers the schema
)

// State is the lifecycle stage of an Application.
type State int32

const (
	StateInit State = iota
	StateReady
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReady:
		return "ready"
	case StateShutdown:
		return "shutdown"
	}
	return "unknown"
}

// ErrNotReady is returned by operations that need a booted application.
var ErrNotReady = errors.New("app: application is not ready")

// ErrDefaultSecret stops a production boot that still signs tokens with the
// placeholder JWT secret.
var ErrDefaultSecret = errors.New("app: JWT_SECRET must be set in production")

// Config collects everything Boot needs.
type Config struct {
	Env                string
	Port               string
	GRPCPort           string
	Database           database.Config
	Storage            storage.Config
	Cache              cache.Options
	JWTSecret          string
	JWTExpire          time.Duration
	Workers            int
	OrderNumberRetries int
	MaxUploadBytes     int64
	WANumber           string
	FrontendURL        string
	RateLimitPerMinute int
	LogMongoURI        string
	LogMongoDB         string
	LogMongoCollection string
	// SkipSeed leaves the seeders out of Boot.
	SkipSeed bool
}

// ConfigFromEnv reads Config through the config package.
func ConfigFromEnv() Config {
	return Config{
		Env:      config.AppEnv(),
		Port:     config.AppPort(),
		GRPCPort: config.GRPCPort(),
		Database: database.FromEnv(),
		Storage:  storage.FromEnv(),
		Cache: cache.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
			Prefix:   "arstoys:",
			TTL:      config.CacheTTL(),
		},
		JWTSecret:          config.JWTSecret(),
		JWTExpire:          config.JWTExpire(),
		Workers:            config.Int("WORKERS", 4),
		OrderNumberRetries: config.OrderNumberRetries(),
		MaxUploadBytes:     config.MaxUploadBytes(),
		WANumber:           config.WANumber(),
		FrontendURL:        config.FrontendURL(),
		RateLimitPerMinute: config.RateLimitPerMinute(),
		LogMongoURI:        config.LogMongoURI(),
		LogMongoDB:         config.LogMongoDB(),
		LogMongoCollection: config.LogMongoCollection(),
	}
}

const feedHeartbeat = 15 * time.Second

// Application is the storefront process.
type Application struct {
	cfg   Config
	state atomic.Int32
	mu    sync.Mutex

	DB      *gorm.DB
	Storage *storage.Manager
	Images  *images.Store
	Cache   *cache.Store
	Jobs    *workerpool.Pool
	Events  *event.Bus
	Hub     *ws.Hub
	Feed    *sse.Broker
	Limiter *middleware.RateLimiter

	Auth    *services.AuthService
	Catalog *services.CatalogService
	Orders  *services.OrderService

	router   *router.Router
	cancel   context.CancelFunc
	mongoLog *logger.MongoHandler
}

// New returns an application in StateInit.
func New(cfg Config) *Application {
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.OrderNumberRetries < 1 {
		cfg.OrderNumberRetries = 5
	}
	return &Application{cfg: cfg}
}

func (a *Application) checkSecrets() error {
	if !config.IsProduction(a.cfg.Env) {
		return nil
	}
	if a.cfg.JWTSecret == "" || config.IsDefaultJWTSecret(a.cfg.JWTSecret) {
		return ErrDefaultSecret
	}
	if !a.cfg.SkipSeed && config.IsDefaultAdminPassword(config.AdminPassword()) {
		logger.Warn("app: admin account seeded with the default password; set ADMIN_PASSWORD")
	}
	return nil
}

// State reports the lifecycle stage.
func (a *Application) State() State { return State(a.state.Load()) }

// Config returns the configuration the application was built with.
func (a *Application) Config() Config { return a.cfg }

// Boot acquires every resource and wires the services. It may run once.
func (a *Application) Boot(ctx context.Context) (err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.State() != StateInit {
		return fmt.Errorf("app: boot in state %s", a.State())
	}
	if err := a.checkSecrets(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			a.release(context.Background())
		}
	}()

	if a.cfg.LogMongoURI != "" {
		if err := a.useMongoLog(ctx); err != nil {
			logger.Warn("app: mongo log sink disabled", "error", err)
		}
	}

	if a.DB, err = database.Open(a.cfg.Database); err != nil {
		return err
	}
	if _, err = migration.New(a.DB).Run(); err != nil {
		return err
	}
	if !a.cfg.SkipSeed {
		if err = seeders.RunAll(ctx, a.DB, io.Discard); err != nil {
			return err
		}
	}

	if a.Storage, err = storage.NewManager(ctx, a.cfg.Storage); err != nil {
		return err
	}
	a.Images = images.New(a.Storage.Disk(), a.cfg.MaxUploadBytes)

	a.Cache, err = cache.Connect(ctx, a.cfg.Cache)
	if err != nil {
		// The catalog still works without a cache.
		logger.Warn("app: cache disabled", "error", err)
		err = nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Jobs = workerpool.New(a.cfg.Workers)
	a.Events = event.NewBus()
	a.Hub = ws.NewHub()
	go a.Hub.Run(runCtx)
	a.Feed = sse.NewBroker(feedHeartbeat)
	for _, name := range []string{event.OrderPlaced, event.OrderStatusChanged, event.OrderDeleted} {
		a.Events.Listen(name, func(_ context.Context, e event.Event) {
			a.Hub.Publish(e)
			a.Feed.Publish(e.Name, e)
		})
	}

	a.Limiter = middleware.NewRateLimiter(a.cfg.RateLimitPerMinute, time.Minute)
	go a.Limiter.Janitor(runCtx)

	a.wireServices()

	if a.router, err = a.buildRouter(); err != nil {
		return err
	}

	a.state.Store(int32(StateReady))
	logger.Info("app: ready", "env", a.cfg.Env, "db", a.cfg.Database.Driver, "cache", a.Cache.Enabled())
	return nil
}

func (a *Application) wireServices() {
	var catalogCache services.CatalogCache
	if a.Cache.Enabled() {
		catalogCache = a.Cache
	}

	tokens := auth.NewTokens(a.cfg.JWTSecret, a.cfg.JWTExpire)
	a.Auth = services.NewAuthService(repositories.NewAdminRepository(a.DB), tokens)
	a.Catalog = services.NewCatalogService(repositories.NewProductRepository(a.DB), a.Images, a.Jobs, catalogCache)
	a.Orders = services.NewOrderService(repositories.NewOrderRepository(a.DB, a.cfg.OrderNumberRetries), a.Events)
}

func (a *Application) useMongoLog(ctx context.Context) error {
	h, err := logger.NewMongoHandler(ctx, a.cfg.LogMongoURI, a.cfg.LogMongoDB, a.cfg.LogMongoCollection, slog.LevelInfo)
	if err != nil {
		return err
	}
	a.mongoLog = h
	logger.Use(logger.FanOut{logger.L.Handler(), h})
	return nil
}

// Handler returns the HTTP handler. It is nil before Boot.
func (a *Application) Handler() http.Handler {
	if a.router == nil {
		return nil
	}
	return a.router.Handler()
}

// Router exposes the booted router, e.g. for route listing.
func (a *Application) Router() *router.Router { return a.router }

// Ping reports whether the database answers.
func (a *Application) Ping(ctx context.Context) error {
	if a.DB == nil {
		return ErrNotReady
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Shutdown stops background work and closes every resource. Calling it
// more than once is harmless.
func (a *Application) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.State() == StateShutdown {
		return nil
	}
	err := a.release(ctx)
	logger.Info("app: stopped")
	return err
}

func (a *Application) release(ctx context.Context) error {
	a.state.Store(int32(StateShutdown))

	var errs []error
	if a.Feed != nil {
		a.Feed.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.Jobs != nil {
		a.Jobs.Shutdown()
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	if a.mongoLog != nil {
		errs = append(errs, a.mongoLog.Close(ctx))
	}
	return errors.Join(errs...)
}
