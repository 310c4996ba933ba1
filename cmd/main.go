package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/eventwise/internal/adapters/http/api"
	"github.com/okian/eventwise/internal/adapters/http/swagger"
	"github.com/okian/eventwise/internal/adapters/repository"
	app "github.com/okian/eventwise/internal/app"
	"github.com/okian/eventwise/internal/config"
	"github.com/okian/eventwise/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeoutPadding    = 5 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet.
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "eventwise exited", logger.Error(err))
		os.Exit(1)
	}
}

// run starts the service and HTTP server and blocks until ctx ends or the
// server fails.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.RequestTimeout() + writeTimeoutPadding,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down server...")
	case err := <-serveErr:
		if err != nil {
			_ = svc.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the service from configuration. A configured catalog
// path replaces the built-in sample catalog.
func newService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	opts := []app.Option{
		app.WithLogger(logger.Named("app")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithRequestTimeout(cfg.RequestTimeout()),
		app.WithScoreDivisor(cfg.ScoreDivisor),
		app.WithMinRelevance(cfg.MinRelevance),
		app.WithRefinePolicy(cfg.RefinePolicy),
		app.WithSummaryLatency(cfg.SummaryLatency()),
		app.WithSeedReviews(cfg.SeedReviews),
		app.WithDedupeSize(cfg.ReviewDedupeSize),
	}
	if cfg.CatalogPath != "" {
		catalog, err := repository.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Get().Info(ctx, "catalog loaded",
			logger.String("path", cfg.CatalogPath),
			logger.Int("events", catalog.Len()),
		)
		opts = append(opts, app.WithCatalog(catalog))
	}
	return app.New(opts...), nil
}

// newHandler mounts the API docs and the business API on one router.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	root := chi.NewRouter()
	swagger.Register(ctx, root)

	apiServer := api.NewServer(svc,
		api.WithRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow()),
		api.WithMaxPromptLength(cfg.MaxPromptLength),
	)
	root.Mount("/", apiServer.Handler(ctx))
	return root
}

// startServiceMetricsUpdater refreshes gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the queue, session and runtime gauges.
			_ = svc.GetStats()
		}
	}
}
