package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/api"
	"github.com/mcoot/scoreboard/internal/factory"
	"github.com/mcoot/scoreboard/internal/realtime"
	redisstorage "github.com/mcoot/scoreboard/internal/storage/redis"
	"github.com/mcoot/scoreboard/internal/storage/sqlstore"
	"github.com/mcoot/scoreboard/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := configFromEnv(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	allowedOrigins := splitList(os.Getenv("ALLOWED_ORIGINS"))

	r := mux.NewRouter()
	api.Register(r, api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		AllowedOrigins: allowedOrigins,
	})
	r.Handle("/ws", app.Realtime)
	web.Register(r, web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HubManager:     app.HubManager,
		IDs:            app.IDs,
		StaticDir:      findStaticDir(),
	})

	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("port", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(r, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", storageName(cfg.StorageType)),
	)

	if err := server.Run(ctx, app.Close); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// configFromEnv builds the factory config from STORAGE_TYPE and the matching
// connection variable
func configFromEnv(logger *slog.Logger) (factory.Config, error) {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, errMissingEnv("REDIS_URL", cfg.StorageType)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg

	case factory.StorageTypeSQLite:
		sqlCfg := sqlstore.DefaultConfig()
		if path := os.Getenv("SQLITE_PATH"); path != "" {
			sqlCfg.DSN = path
		}
		cfg.SQLConfig = &sqlCfg

	case factory.StorageTypePostgres:
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return cfg, errMissingEnv("DATABASE_URL", cfg.StorageType)
		}
		sqlCfg := sqlstore.PostgresConfig(dbURL)
		cfg.SQLConfig = &sqlCfg
	}

	rtCfg := realtime.DefaultConfig()
	rtCfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	cfg.Realtime = &rtCfg

	return cfg, nil
}

func errMissingEnv(name, storage string) error {
	return fmt.Errorf("%s required when STORAGE_TYPE=%s", name, storage)
}

func storageName(t string) string {
	if t == "" {
		return factory.StorageTypeMemory
	}
	return t
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// findStaticDir returns STATIC_DIR, or the first static directory found
// relative to the working directory
func findStaticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}

	for _, dir := range []string{"internal/web/static", "static"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
