// Package server provides the HTTP backend for potential.
//
// The server owns the activity catalog, serves it to fetch clients and
// imports workout sheets into it, on demand or on a cron schedule.
//
// # Endpoints
//
//   - GET / - Returns "Server is up."
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/activities - Lists activities
//   - POST /api/activities - Creates an activity
//   - GET /api/activity_events - Lists activity events
//   - POST /db/import - Starts a sheet import
//   - POST /db/reset - Clears the catalog
//   - GET /api/status - Consolidated status (server, import, next run, catalog)
//   - GET /status - Current import status including live logs
//   - GET /history - Finished imports, most recent first
//   - GET /history/logs?id= - Logs of one finished import
//   - GET /config - Returns current configuration as YAML
//   - POST /reload - Reloads configuration from disk
//   - GET /metrics - Prometheus metrics
//
// # Reloading
//
// The config is swapped atomically on reload. The log level changes
// immediately; the sheet URL and import timeout apply to the next import.
// Listener, CORS and schedule settings are read once at startup.
//
// # Example
//
//	srv, err := server.New("/etc/potential/server.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/dnsco/potential/catalog"
	"github.com/dnsco/potential/logging"
	"github.com/dnsco/potential/metrics"
	"github.com/dnsco/potential/server/config"
	"github.com/dnsco/potential/server/cron"
	"github.com/dnsco/potential/server/handlers"
	"github.com/dnsco/potential/server/runner"
	"github.com/dnsco/potential/server/types"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Server is the potential HTTP server.
type Server struct {
	addr       string
	configPath string
	logWriter  io.Writer
	logger     *logging.Logger
	config     atomic.Pointer[config.ServerConfig]
	properties types.ServerProperties

	catalog  *catalog.Catalog
	runner   *runner.Runner
	metrics  *runner.Metrics
	registry *metrics.ScrapeRegistry
	schedule *cron.CronTriggerManager

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server) error

// WithListenAddr overrides the listener address from the config file.
func WithListenAddr(addr string) Option {
	return func(s *Server) error {
		s.addr = addr
		return nil
	}
}

// WithLogWriter sends server logs to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(s *Server) error {
		s.logWriter = w
		return nil
	}
}

// New creates a new Server with the given config path and options.
// It loads the configuration and initializes all dependencies.
func New(configPath string, opts ...Option) (*Server, error) {
	s := &Server{
		configPath: configPath,
		logWriter:  os.Stderr,
		properties: types.NewServerProperties(),
		catalog:    catalog.New(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	s.config.Store(cfg)
	if s.addr == "" {
		s.addr = cfg.Listener.Addr
	}

	s.logger, err = logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: "json",
		Writer: s.logWriter,
	})
	if err != nil {
		return nil, err
	}

	s.registry, err = metrics.NewScrapeRegistry()
	if err != nil {
		return nil, fmt.Errorf("creating metrics registry: %w", err)
	}
	s.metrics, err = runner.NewMetrics(s.registry)
	if err != nil {
		return nil, fmt.Errorf("registering import metrics: %w", err)
	}

	s.runner = runner.New(s.logger.Logger, s, s.catalog, runner.WithMetrics(s.metrics))

	if cfg.Import.Schedule != "" {
		s.schedule, err = cron.NewCronTriggerManager(cfg.Import.Schedule, s.runner, s.logger.Logger)
		if err != nil {
			return nil, fmt.Errorf("creating import schedule: %w", err)
		}
	}

	return s, nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger.Logger
}

// Reload reads the config from disk and swaps it in.
func (s *Server) Reload() error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	s.logger.SetLevel(level)
	s.config.Store(cfg)

	s.logger.Info("configuration loaded", "config_path", s.configPath)
	return nil
}

// Config returns the current configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.config.Load()
}

// NextRun returns the next scheduled import time, or nil if no schedule is configured.
func (s *Server) NextRun() *time.Time {
	if s.schedule == nil {
		return nil
	}
	next := s.schedule.NextRun()
	return &next
}

// Reset clears the catalog.
func (s *Server) Reset() {
	s.catalog.Reset()
	s.metrics.ObserveCatalog(s.catalog)
}

// Create adds an activity to the catalog.
func (s *Server) Create(name string, parentID *int) (catalog.Activity, error) {
	activity, err := s.catalog.Create(name, parentID)
	if err != nil {
		return catalog.Activity{}, err
	}
	s.metrics.ObserveCatalog(s.catalog)
	return activity, nil
}

// Handler returns the server's routes wrapped in its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return corsMiddleware(s.Config().CORS.AllowedOrigin, requestLogger(s.logger.Logger, mux))
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs a graceful shutdown when the context is done, waiting for an
// import in progress to finish.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.Config()

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	if cfg.Listener.TLSEnabled() {
		loader, err := NewCertLoader(cfg.Listener.TLSCert, cfg.Listener.TLSKey, s.logger.Logger)
		if err != nil {
			return err
		}
		s.httpServer.TLSConfig = loader.TLSConfig()
	}

	if s.schedule != nil {
		s.logger.Info("starting import schedule",
			"schedules", s.schedule.Schedules(),
			"next_run", s.schedule.NextRun(),
		)
		s.schedule.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"addr", s.addr,
			"config_path", s.configPath,
			"tls", cfg.Listener.TLSEnabled(),
			"version", s.properties.Build.Version,
		)
		var err error
		if cfg.Listener.TLSEnabled() {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)
		s.runner.Wait()
		return err
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	logger := s.logger.Logger

	mux.HandleFunc("GET /{$}", handlers.HandleRoot)
	mux.HandleFunc("GET /health", handlers.HandleHealth)

	mux.Handle("GET /api/activities", handlers.NewActivitiesHandler(s.catalog))
	mux.Handle("POST /api/activities", handlers.NewCreateActivityHandler(logger, s))
	mux.Handle("GET /api/activity_events", handlers.NewEventsHandler(s.catalog))
	mux.Handle("POST /db/import", handlers.NewImportHandler(logger, s.runner))
	mux.Handle("POST /db/reset", handlers.NewResetHandler(logger, s))

	mux.Handle("GET /api/status", handlers.NewAPIStatusHandler(s.properties, s.runner, s, s.catalog))
	mux.Handle("GET /status", handlers.NewRunStatusHandler(s.runner))
	mux.Handle("GET /history", handlers.NewHistoryHandler(s.runner))
	mux.Handle("GET /history/logs", handlers.NewHistoryLogsHandler(s.runner))
	mux.Handle("GET /config", handlers.NewConfigHandler(s))
	mux.Handle("POST /reload", handlers.NewReloadHandler(logger, s))
	mux.Handle("GET /metrics", s.registry.Handler())
}
