package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nflpulse/internal/config"
	apierrors "nflpulse/internal/errors"
	"nflpulse/internal/exporter"
	"nflpulse/internal/infrastructure"
	customMiddleware "nflpulse/internal/middleware"
	"nflpulse/internal/operations"
	"nflpulse/internal/services"
	"nflpulse/internal/store"
	handlers "nflpulse/internal/transport/http"
)

// Version is overridden at build time with -ldflags
var Version = "dev"

// Application wires configuration, services, the run manager and the HTTP
// router into a single server process.
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger
	Router chi.Router

	server  *http.Server
	manager *operations.Manager
	stats   *services.StatsService
	health  *services.HealthService
}

// New loads configuration and assembles the application
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig assembles the application from an existing configuration.
// Used by tests to inject temp directories and ports.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	app := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
		stats:  services.NewStatsService(paths, logger),
		health: services.NewHealthService(Version, paths, logger),
	}

	if err := app.initializeRunManager(); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeRunManager registers the pipeline steps behind the runs API
func (a *Application) initializeRunManager() error {
	registry := operations.NewRegistry()
	err := operations.RegisterPipelineSteps(
		registry,
		store.New(a.Logger),
		a.Paths,
		exporter.NewTableExporter(a.Paths),
		a.Config.Pipeline.Season,
		a.Logger,
	)
	if err != nil {
		return fmt.Errorf("register pipeline steps: %w", err)
	}

	a.manager = operations.NewManager(registry, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes.
// Middleware ordering: RequestID, RealIP, Recoverer, Metrics; request
// logging happens inside the API group via errors.ErrorMiddleware.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.Metrics)
	r.Use(customMiddleware.NewRateLimiter(
		a.Config.Server.RateLimitRPS,
		a.Config.Server.RateLimitBurst,
		a.Logger,
	).Handler)
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	a.setupAPIRoutes(r)

	// Prometheus endpoint stays outside the API group
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	errorMiddleware := apierrors.NewErrorMiddleware(errorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		// Logs every API request at a level matching its status and
		// recovers handler panics into problem responses
		r.Use(errorMiddleware.Handler)

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)

		// Read endpoints get the standard timeout
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.health, a.Logger)
			r.Mount("/health", healthHandler.Routes())
			r.Get("/version", healthHandler.Version)

			rankingsHandler := handlers.NewRankingsHandler(a.stats, a.Logger, errorHandler)
			r.Mount("/rankings", rankingsHandler.Routes())
		})

		// Runs trigger long pipeline executions in the background, so the
		// handlers themselves only need the standard timeout too
		runsHandler := handlers.NewRunsHandler(a.manager, a.Logger, errorHandler)
		r.Mount("/runs", runsHandler.Routes())
	})
}

// createServer builds the HTTP server for the configured port
func (a *Application) createServer() {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server in the background. Server errors cancel the
// supplied context so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.String("data_dir", a.Paths.DataDir))

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
