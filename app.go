package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/events"
	"github.com/campus-portal/portal-service/internal/llm"
	"github.com/campus-portal/portal-service/internal/repositories/postgres"
	"github.com/campus-portal/portal-service/internal/services"
	"github.com/campus-portal/portal-service/internal/storage"
	"github.com/campus-portal/portal-service/internal/validator"
	"github.com/campus-portal/portal-service/pkg"
)

// addCommonFlags registers the flags shared by every subcommand. Names match
// the config keys so viper picks them up through BindPFlags.
func addCommonFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("db-driver", "postgres", "Database driver (postgres, sqlite)")
	fs.String("database-url", "", "Database DSN, or a file path for sqlite")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.NewViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", "portal-service")
	slog.SetDefault(logger)
	return logger
}

// app owns the long-lived collaborators behind the services.
type app struct {
	store    storage.FileStore
	services services.ServiceManager
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis disabled", "error", err)
			redisClient = nil
		}
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	publisher, err := events.NewPublisher(cfg.Kafka, logger)
	if err != nil {
		return nil, err
	}

	issuer, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	deps := services.Dependencies{
		Repo:       repoManager.GetRepository(),
		Logger:     logger,
		Validator:  validator.New(),
		Cache:      cache.NewCacheManager(redisClient),
		Publisher:  publisher,
		Store:      store,
		Issuer:     issuer,
		University: cfg.University,
		Clock:      time.Now,
	}
	if cfg.Casdoor.Enabled() {
		deps.External = auth.NewCasdoorVerifier(cfg.Casdoor)
	}
	if cfg.LLM.Enabled() {
		deps.LLM = llm.New(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	}

	sm := services.NewServiceManager(deps)
	if err := sm.Initialize(ctx); err != nil {
		return nil, errors.Join(err, publisher.Close(), repoManager.Shutdown(ctx))
	}

	return &app{store: store, services: sm}, nil
}

// localUploadDir is the directory to serve under /uploads, or "" when files
// live in a remote bucket.
func (a *app) localUploadDir() string {
	if local, ok := a.store.(*storage.LocalStorage); ok {
		return local.Root()
	}
	return ""
}

func (a *app) close(ctx context.Context) error {
	return a.services.Shutdown(ctx)
}
