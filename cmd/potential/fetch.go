package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dnsco/potential/activities"
	"github.com/dnsco/potential/clients/activityclient"
	"github.com/dnsco/potential/config"
	"github.com/dnsco/potential/display"
	"github.com/dnsco/potential/export"
	"github.com/dnsco/potential/logging"
	"github.com/dnsco/potential/metrics"
)

var errFetchFailed = errors.New("fetch failed")

type fetchOptions struct {
	clientFlags
	xlsxPath     string
	discardStale bool
	quiet        bool
}

func newFetchCmd() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch activities and print every state change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if opts.discardStale {
				cfg.DiscardStale = true
			}

			logger, err := logging.New(cfg.Logging.ToLoggingConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			_, err = fetch(cmd.Context(), cfg, logger.Logger, cmd.OutOrStdout(), opts)
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "Write the fetched activities to an Excel workbook")
	cmd.Flags().BoolVar(&opts.discardStale, "discard-stale", false, "Ignore results of superseded fetches")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress spinner")
	return cmd
}

// fetch runs one fetch lifecycle, writing each state to out. It returns
// errFetchFailed when the store ends in the failed state.
func fetch(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer, opts fetchOptions) (activities.State, error) {
	client := activityclient.New(cfg.Endpoint,
		activityclient.WithTimeout(cfg.Timeout),
		activityclient.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		activityclient.WithLogger(logger),
	)

	storeOpts := []activities.Option{activities.WithLogger(logger)}
	if cfg.DiscardStale {
		storeOpts = append(storeOpts, activities.WithDiscardStale())
	}
	if cfg.Monitoring.VictoriaMetricsURL != "" {
		m, err := newPushMetrics(cfg.Monitoring, logger)
		if err != nil {
			return activities.State{}, err
		}
		storeOpts = append(storeOpts, activities.WithMetrics(m))
	}

	store := activities.NewStore(client, storeOpts...)
	watcher := display.NewWatcher(out).WithLogger(logger)
	unsubscribe := store.Subscribe(watcher.Update)
	defer unsubscribe()

	logger.Info("fetching activities", "endpoint", client.Endpoint())

	var bar *progressbar.ProgressBar
	if !opts.quiet {
		bar = newSpinner("Fetching activities")
	}
	waitFor(store.TriggerFetch(ctx), bar)

	state := store.Snapshot()
	if opts.xlsxPath != "" {
		if err := export.WriteXLSX(opts.xlsxPath, state); err != nil {
			return state, err
		}
		logger.Info("activities exported", "path", opts.xlsxPath, "count", len(state.Activities))
	}

	if state.Status == activities.StatusFailed {
		return state, errFetchFailed
	}
	return state, nil
}

func newPushMetrics(cfg config.MonitoringConfig, logger *slog.Logger) (*activities.Metrics, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}

	registry := metrics.NewPushRegistry(metrics.PushConfig{
		URL:      cfg.VictoriaMetricsURL,
		Prefix:   cfg.MetricsPrefix,
		Job:      cfg.JobName,
		Instance: hostname,
		Logger:   logger,
	})
	return activities.NewMetrics(registry)
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()
	return bar
}

// waitFor blocks until done is closed, spinning bar if there is one.
func waitFor(done <-chan struct{}, bar *progressbar.ProgressBar) {
	if bar == nil {
		<-done
		return
	}
	defer func() { _ = bar.Finish() }()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
