package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures error forwarding to Sentry.
type SentryConfig struct {
	DSN         string
	Environment string

	// MinLevel set to slog.LevelError narrows forwarded logs to errors
	// only; anything lower also forwards warnings.
	MinLevel slog.Level
}

// NewWithSentry creates the standard JSON logger and, when a DSN is
// configured, tees warnings and errors to Sentry. An empty DSN or a
// failed init falls back to stdout only, so local runs need no Sentry
// account.
func NewWithSentry(cfg SentryConfig, extractors ...Extractor) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if cfg.DSN == "" {
		return slog.New(Decorate(stdout, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(Decorate(stdout, extractors...))
	}

	// Errors become Sentry issues; lower levels are kept as plain logs
	// for search and context.
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(Decorate(fanout(stdout, sentryHandler), extractors...))
}
