// Package runner manages sheet imports for the potential server.
//
// The runner handles:
//   - Starting imports in the background
//   - Preventing concurrent imports
//   - Tracking current import status and its logs
//   - Maintaining history of finished imports
//
// Each import reads the current configuration, so a reloaded sheet URL or
// timeout takes effect on the next run.
//
// # Example
//
//	r := runner.New(logger, configProvider, cat)
//
//	if err := r.Run(); err != nil {
//	    if errors.Is(err, runner.ErrRunInProgress) {
//	        // Handle concurrent import attempt
//	    }
//	}
//
//	status := r.Status()
//	for _, entry := range status.Logs {
//	    fmt.Printf("[%s] %s\n", entry.Level, entry.Message)
//	}
//
//	history := r.History() // Most recent first
package runner

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dnsco/potential/catalog"
	"github.com/dnsco/potential/importer"
	"github.com/dnsco/potential/logging"
	"github.com/dnsco/potential/server/config"
)

// ErrRunInProgress is returned when attempting to start a run while one is already running.
var ErrRunInProgress = errors.New("import already in progress")

// Runner manages import execution.
type Runner struct {
	logger         *slog.Logger
	configProvider ConfigProvider
	catalog        *catalog.Catalog
	store          StateStore
	metrics        *Metrics
	httpClient     *http.Client

	mu        sync.Mutex
	runStatus RunStatus
	capture   *logging.Capture // current run's logs
	inflight  sync.WaitGroup
}

// ConfigProvider provides access to the current configuration.
type ConfigProvider interface {
	Config() *config.ServerConfig
}

// Option configures a Runner.
type Option func(*Runner)

// WithStateStore configures where finished runs are recorded.
func WithStateStore(store StateStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithMetrics records import outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithHTTPClient sets the client used to download sheets.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Runner) {
		r.httpClient = hc
	}
}

// New creates a new Runner importing into cat.
func New(logger *slog.Logger, provider ConfigProvider, cat *catalog.Catalog, opts ...Option) *Runner {
	r := &Runner{
		logger:         logger,
		configProvider: provider,
		catalog:        cat,
		store:          NewMemoryStore(defaultMaxHistorySize),
		httpClient:     &http.Client{},
		runStatus:      RunStatus{State: RunStateIdle},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run starts an import in the background.
// Returns importer.ErrNoSheetURL if no sheet is configured and
// ErrRunInProgress if an import is already in progress.
func (r *Runner) Run() error {
	cfg := r.configProvider.Config()
	if cfg == nil {
		return errors.New("no configuration available")
	}
	if cfg.Import.SheetURL == "" {
		return importer.ErrNoSheetURL
	}

	if !r.tryStart() {
		return ErrRunInProgress
	}

	r.logger.Info("starting import")

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		result, err := r.executeRun(cfg.Import)
		r.finish(result, err)
	}()

	return nil
}

// Status returns the current run status. While running it includes the logs
// captured so far; when idle it is the last finished run.
func (r *Runner) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.runStatus
	if status.State == RunStateRunning && r.capture != nil {
		status.Logs = r.capture.Entries()
	}
	return status
}

// IsRunning returns true if an import is in progress.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runStatus.State == RunStateRunning
}

// History returns the history of finished runs, most recent first.
func (r *Runner) History() []RunStatus {
	return r.store.Runs()
}

// Wait blocks until the current import, if any, has finished.
func (r *Runner) Wait() {
	r.inflight.Wait()
}

// tryStart attempts to transition from idle to running.
// Returns true if successful, false if already running.
func (r *Runner) tryStart() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runStatus.State == RunStateRunning {
		return false
	}

	now := time.Now()
	r.runStatus = RunStatus{
		State:     RunStateRunning,
		StartedAt: &now,
	}
	r.capture = logging.NewCapture()
	return true
}

// finish transitions from running to idle and records the result.
func (r *Runner) finish(result importer.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	endTime := time.Now()
	duration := endTime.Sub(*r.runStatus.StartedAt)

	r.runStatus.ID = result.ID.String()
	r.runStatus.State = RunStateIdle
	r.runStatus.EndedAt = &endTime
	r.runStatus.Result = &result
	r.runStatus.Logs = r.capture.Entries()

	if err != nil {
		r.runStatus.Error = err.Error()
		r.logger.Error("import failed", "import_id", r.runStatus.ID, "error", err, "duration", duration)
	} else {
		r.logger.Info("import completed",
			"import_id", r.runStatus.ID,
			"events", result.Events,
			"duration", duration,
		)
	}
	r.metrics.observe(err, duration, r.catalog)

	if err := r.store.Save(r.runStatus); err != nil {
		r.logger.Error("failed to save run to store", "error", err)
	}
}

func (r *Runner) executeRun(cfg config.ImportConfig) (importer.Result, error) {
	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	r.mu.Lock()
	logger := r.capture.Logger(r.logger)
	r.mu.Unlock()

	imp := importer.New(r.catalog, cfg.SheetURL,
		importer.WithLogger(logger),
		importer.WithHTTPClient(r.httpClient),
	)
	return imp.Run(ctx)
}
