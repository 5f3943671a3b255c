package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Kimen6931/BlockLocker/internal/config"
	"github.com/Kimen6931/BlockLocker/internal/dependencies/clock"
	"github.com/Kimen6931/BlockLocker/internal/events"
	"github.com/Kimen6931/BlockLocker/internal/observe"
	"github.com/Kimen6931/BlockLocker/internal/services/directory"
	"github.com/Kimen6931/BlockLocker/internal/services/protection"
	"github.com/Kimen6931/BlockLocker/internal/services/resolver"
	"github.com/Kimen6931/BlockLocker/internal/services/updater"
	"github.com/Kimen6931/BlockLocker/internal/storage"
	"github.com/Kimen6931/BlockLocker/internal/storage/memory"
	redisstorage "github.com/Kimen6931/BlockLocker/internal/storage/redis"
	"github.com/Kimen6931/BlockLocker/internal/world"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	// StoragePinger checks the storage connection; nil for in-memory storage
	StoragePinger Pinger

	// External dependencies
	Clock  clock.Clock
	Lookup resolver.NameLookup

	// Main loop, metrics and event stream
	Loop    *world.Loop
	Metrics *observe.Metrics
	Events  *events.Hub

	// Services
	Updater           *updater.Updater
	Resolver          *resolver.Resolver
	ProtectionService *protection.Service

	closeFn func() error
}

// Pinger is implemented by storage backends with a remote connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Metrics records pipeline metrics (optional)
	// If nil, nothing is recorded
	Metrics *observe.Metrics
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Directory configures the player directory client
	Directory directory.Config
	// HTTPClient is used for directory requests (optional)
	HTTPClient *http.Client
	// NotFoundTag replaces names the directory does not know (optional)
	NotFoundTag string
	// MainQueueSize bounds the main loop task queue
	MainQueueSize int
}

// ConfigFrom builds a factory Config from the server configuration
func ConfigFrom(cfg config.Config, logger *slog.Logger, metrics *observe.Metrics) Config {
	fc := Config{
		Logger:      logger,
		Metrics:     metrics,
		StorageType: cfg.StorageType,
		Directory: directory.Config{
			URL:       cfg.DirectoryURL,
			Timeout:   cfg.DirectoryTimeout,
			BatchSize: cfg.DirectoryBatchSize,
		},
		NotFoundTag:   cfg.NotFoundTag,
		MainQueueSize: cfg.MainQueueSize,
	}
	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	var pinger Pinger
	closeFn := func() error { return nil }
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		pinger = redisStore
		closeFn = redisStore.Close
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	lookup := directory.New(cfg.Directory, cfg.HTTPClient, logger)

	app := newWithDependencies(store, clk, lookup, cfg, logger)
	app.closeFn = closeFn
	app.StoragePinger = pinger
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, lookup resolver.NameLookup, cfg Config, logger *slog.Logger) *App {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observe.NopMetrics()
	}

	loop := world.NewLoop(cfg.MainQueueSize, logger)
	hub := events.NewHub(logger)
	updaterService := updater.New(store, cfg.NotFoundTag, clk, metrics, logger)
	updaterService.PublishTo(hub)
	nameResolver := resolver.New(lookup, loop, updaterService, clk, metrics, logger)
	nameResolver.PublishTo(hub)
	protectionService := protection.New(store, loop, nameResolver, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Lookup:            lookup,
		Loop:              loop,
		Metrics:           metrics,
		Events:            hub,
		Updater:           updaterService,
		Resolver:          nameResolver,
		ProtectionService: protectionService,
		closeFn:           func() error { return nil },
	}
}

// Close releases storage connections
func (a *App) Close() error {
	return a.closeFn()
}
