// Package server owns the HTTP runtime: listener setup, timeouts,
// signal handling, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filedrophq/filedrop/pkg/logger"
)

// Timeouts are tuned for an upload service: header reads stay tight
// while body reads and store round-trips get room for large files on
// slow links.
const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultReadTimeout       = 10 * time.Minute
	defaultWriteTimeout      = 10 * time.Minute
	defaultIdleTimeout       = 120 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1 MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Config holds everything Run needs to serve and stop cleanly.
type Config struct {
	// Addr is the listen address, ":8080" when empty.
	Addr string

	// Handler is the root HTTP handler, usually a NewRouter result.
	Handler http.Handler

	Log *slog.Logger

	// ShutdownTimeout bounds graceful shutdown including every hook.
	ShutdownTimeout time.Duration

	// Hooks run after the listener stops accepting, sharing the
	// shutdown deadline. Use them to flush telemetry or close clients.
	Hooks []func(context.Context) error

	// BaseCtx, when set, stops the server on cancellation just like
	// SIGINT/SIGTERM would. Defaults to context.Background().
	BaseCtx context.Context

	// Ready, when set, receives the bound address once the listener
	// is open. Useful with ":0" addresses.
	Ready func(net.Addr)
}

// Run starts the HTTP server and blocks until a termination signal
// arrives or BaseCtx is canceled, then shuts down gracefully.
func Run(cfg Config) error {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	log := cfg.Log
	if log == nil {
		log = logger.NewNope()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cfg.Handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	baseCtx := cfg.BaseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Listen before Serve so a bad address fails fast and ":0"
	// callers learn the bound port.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if cfg.Ready != nil {
		cfg.Ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for a fatal serve error or a stop signal.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range cfg.Hooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}
	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}
