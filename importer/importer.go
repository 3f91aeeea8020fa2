// Package importer loads a tab-separated workout sheet into the catalog.
//
// Each import records one "Workout" activity, one event per sheet day, and
// for every row an exercise activity nested under Workout plus an event
// whose notes are the row's sets, nested under that day's event.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dnsco/potential/catalog"
)

// WorkoutActivity is the top-level activity every imported exercise is nested under.
const WorkoutActivity = "Workout"

// ErrNoSheetURL is returned by Run when no sheet URL is configured.
var ErrNoSheetURL = errors.New("no sheet URL configured")

// Result summarises one completed import.
type Result struct {
	ID         uuid.UUID `json:"id"`
	Days       int       `json:"days"`
	Activities int       `json:"activities"`
	Events     int       `json:"events"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// Importer downloads the sheet at a URL and records it in a catalog.
type Importer struct {
	catalog    *catalog.Catalog
	sheetURL   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithHTTPClient replaces the client used to download the sheet.
func WithHTTPClient(hc *http.Client) Option {
	return func(i *Importer) {
		i.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// New creates an Importer writing into cat.
func New(cat *catalog.Catalog, sheetURL string, opts ...Option) *Importer {
	i := &Importer{
		catalog:    cat,
		sheetURL:   sheetURL,
		httpClient: &http.Client{Timeout: time.Minute},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run downloads, parses and records the sheet.
func (i *Importer) Run(ctx context.Context) (Result, error) {
	result := Result{ID: uuid.New(), StartedAt: time.Now()}
	logger := i.logger.With("import_id", result.ID.String())

	if i.sheetURL == "" {
		return result, ErrNoSheetURL
	}

	days, err := i.download(ctx)
	if err != nil {
		result.EndedAt = time.Now()
		return result, err
	}
	logger.Info("sheet parsed", "days", len(days), "records", days.Records())

	err = i.record(ctx, logger, days, &result)
	result.EndedAt = time.Now()
	if err != nil {
		return result, err
	}

	logger.Info("import complete",
		"days", result.Days,
		"activities", result.Activities,
		"events", result.Events,
		"duration", result.EndedAt.Sub(result.StartedAt),
	)
	return result, nil
}

func (i *Importer) download(ctx context.Context) (Days, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.sheetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating sheet request: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("downloading sheet: unexpected status code %d: %s", resp.StatusCode, body)
	}

	days, err := ParseSheet(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing sheet: %w", err)
	}
	return days, nil
}

func (i *Importer) record(ctx context.Context, logger *slog.Logger, days Days, result *Result) error {
	workout, err := i.catalog.FindOrCreate(WorkoutActivity, nil)
	if err != nil {
		return fmt.Errorf("recording %s activity: %w", WorkoutActivity, err)
	}
	touched := map[int]struct{}{workout.ID: {}}

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return err
		}

		dayEvent, err := i.catalog.CreateEvent(workout.ID, fmt.Sprintf("%s %s", WorkoutActivity, day.Label()), nil)
		if err != nil {
			return fmt.Errorf("recording day %s: %w", day.Label(), err)
		}
		result.Days++
		result.Events++

		for _, rec := range day.Records {
			exercise, err := i.catalog.FindOrCreate(rec.Exercise, &workout.ID)
			if err != nil {
				return fmt.Errorf("recording exercise %q: %w", rec.Exercise, err)
			}
			touched[exercise.ID] = struct{}{}

			if _, err := i.catalog.CreateEvent(exercise.ID, rec.Sets, &dayEvent.ID); err != nil {
				return fmt.Errorf("recording sets for %q on %s: %w", rec.Exercise, day.Label(), err)
			}
			result.Events++
		}
		logger.Debug("day imported", "date", day.Label(), "records", len(day.Records))
	}

	result.Activities = len(touched)
	return nil
}
