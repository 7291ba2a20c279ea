// Package logger builds the slog loggers used across the service: JSON
// to stdout, request-scoped attributes pulled from context on every log
// call, and optional Sentry forwarding for warnings and errors.
//
// Handlers are composed with Decorate so extractors apply to every
// destination:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         cfg.SentryDSN,
//		Environment: cfg.AppEnv,
//	}, middleware.RequestIDExtractor())
//
//	log.InfoContext(ctx, "object stored", slog.String("key", key))
//
// With an empty DSN the same call degrades to stdout-only logging, so
// development and production share one code path.
package logger
