package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/handicap/internal/adapters/http/api"
	"github.com/okian/handicap/internal/adapters/http/swagger"
	service "github.com/okian/handicap/internal/app"
	"github.com/okian/handicap/internal/config"
	"github.com/okian/handicap/internal/domain/dedupe"
	"github.com/okian/handicap/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
}

// run serves the API until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, err := service.FromConfig(ctx, cfg, log.Named("service"))
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop(context.Background())

	handler, err := newHandler(cfg, svc, log.Named("http"))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newHandler builds the router: the league API plus its docs.
func newHandler(cfg *config.Config, svc *service.Service, log logger.Logger) (chi.Router, error) {
	verifier, err := api.NewPINVerifier(cfg.AdminPIN, cfg.AdminPINHash)
	if err != nil {
		return nil, err
	}
	if verifier == nil {
		log.Warn(context.Background(), "no admin PIN configured; write routes are disabled")
	}

	server := api.NewServer(svc,
		api.WithAdmin(verifier, api.NewIPRateLimiter(cfg.AdminRatePerMinute, cfg.AdminBurst)),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.IdempotencyKeys))),
		api.WithLogger(log),
	)
	r := server.Router()
	swagger.Register(r)
	return r, nil
}
