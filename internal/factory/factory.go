package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/ids"
	"github.com/mcoot/scoreboard/internal/realtime"
	"github.com/mcoot/scoreboard/internal/services/game"
	"github.com/mcoot/scoreboard/internal/storage"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	redisstorage "github.com/mcoot/scoreboard/internal/storage/redis"
	"github.com/mcoot/scoreboard/internal/storage/sqlstore"
	"github.com/mcoot/scoreboard/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	GameController *game.Controller
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster
	Realtime       *realtime.Hub

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend: memory, redis, sqlite or postgres
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings. Optional for sqlite, which then uses
	// sqlstore.DefaultConfig(); required for postgres.
	SQLConfig *sqlstore.Config
	// Realtime holds websocket settings; zero value uses realtime.DefaultConfig()
	Realtime *realtime.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	rtCfg := realtime.DefaultConfig()
	if cfg.Realtime != nil {
		rtCfg = *cfg.Realtime
	}

	app := newWithDependencies(store, clock.New(), ids.New(), rtCfg, logger)
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil

	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case StorageTypeSQLite, StorageTypePostgres:
		sqlCfg := sqlstore.DefaultConfig()
		if cfg.SQLConfig != nil {
			sqlCfg = *cfg.SQLConfig
		} else if storageType == StorageTypePostgres {
			return nil, nil, errors.New("SQLConfig required when StorageType is postgres")
		}
		if string(sqlCfg.Dialect) != storageType {
			return nil, nil, fmt.Errorf("SQLConfig dialect %q does not match StorageType %q", sqlCfg.Dialect, storageType)
		}
		store, err := sqlstore.New(sqlCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, idGen ids.Generator, rtCfg realtime.Config, logger *slog.Logger) *App {
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	realtimeHub := realtime.NewHub(rtCfg, idGen, logger)

	notifiers := game.Notifiers{broadcaster, realtimeHub}
	gameController := game.NewController(store, notifiers, clk, idGen, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		IDs:            idGen,
		GameController: gameController,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		Realtime:       realtimeHub,
	}
}

// Close disconnects realtime clients and releases storage connections
func (a *App) Close() error {
	a.Realtime.Close()

	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
