package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/filedrophq/filedrop/internal/config"
	"github.com/filedrophq/filedrop/internal/handler"
	"github.com/filedrophq/filedrop/internal/middleware"
	"github.com/filedrophq/filedrop/internal/server"
	"github.com/filedrophq/filedrop/pkg/logger"
	"github.com/filedrophq/filedrop/pkg/objstore"
)

const authProbeTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "filedrop:", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is a development convenience; absence is normal.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(logger.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
	}, middleware.RequestIDExtractor())

	store, err := objstore.New(objstore.Config{
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		Bucket:    cfg.Storage.Bucket,
	}, objstore.WithLogger(log))
	if err != nil {
		return err
	}

	// Refuse to start with credentials the store rejects.
	probeCtx, cancel := context.WithTimeout(context.Background(), authProbeTimeout)
	defer cancel()
	if err := store.VerifyAuth(probeCtx); err != nil {
		return err
	}

	log.Info("filedrop starting",
		slog.Any("storage", cfg.Storage),
		slog.String("addr", cfg.Addr),
		slog.Duration("presign_ttl", cfg.PresignTTL),
		slog.String("env", cfg.AppEnv),
	)

	h := handler.New(store, handler.StoreInfo{
		Endpoint: store.Endpoint(),
		Region:   store.Region(),
		Bucket:   store.Bucket(),
	}, cfg.PresignTTL, log)

	var hooks []func(context.Context) error
	if cfg.SentryDSN != "" {
		hooks = append(hooks, func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	return server.Run(server.Config{
		Addr:    cfg.Addr,
		Handler: server.NewRouter(h, store, log),
		Log:     log,
		Hooks:   hooks,
	})
}
