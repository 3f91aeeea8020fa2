package runner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsco/potential/catalog"
	"github.com/dnsco/potential/importer"
	"github.com/dnsco/potential/metrics"
	"github.com/dnsco/potential/server/config"
)

const testSheet = "Date\tExercise\tReps\tSets\n" +
	"2020-04-01\tBicep Curl\t6\t25, 30\n" +
	"2020-04-02\tMeow\t7\t30, 40\n" +
	"2020-04-01\tMilitary Press\t7\t30, 35\n"

type staticProvider struct {
	cfg *config.ServerConfig
}

func (p staticProvider) Config() *config.ServerConfig {
	return p.cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func providerFor(url string) staticProvider {
	return staticProvider{cfg: &config.ServerConfig{
		Import: config.ImportConfig{SheetURL: url, Timeout: 5 * time.Second},
	}}
}

func TestRunner_InitialStatus(t *testing.T) {
	r := New(testLogger(), providerFor(""), catalog.New())

	status := r.Status()
	assert.Equal(t, RunStateIdle, status.State)
	assert.Nil(t, status.StartedAt)
	assert.False(t, r.IsRunning())
	assert.Empty(t, r.History())
}

func TestRunner_Run_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testSheet))
	}))
	defer ts.Close()

	cat := catalog.New()
	r := New(testLogger(), providerFor(ts.URL), cat)

	require.NoError(t, r.Run())
	r.Wait()

	status := r.Status()
	assert.Equal(t, RunStateIdle, status.State)
	assert.NotEmpty(t, status.ID)
	assert.Empty(t, status.Error)
	require.NotNil(t, status.StartedAt)
	require.NotNil(t, status.EndedAt)
	require.NotNil(t, status.Result)
	assert.Equal(t, 2, status.Result.Days)
	assert.Equal(t, 5, status.Result.Events)

	var messages []string
	for _, entry := range status.Logs {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "sheet parsed")
	assert.Contains(t, messages, "import complete")

	activities, events := cat.Counts()
	assert.Equal(t, 4, activities)
	assert.Equal(t, 5, events)

	history := r.History()
	require.Len(t, history, 1)
	assert.Equal(t, status.ID, history[0].ID)
}

func TestRunner_Run_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	r := New(testLogger(), providerFor(ts.URL), catalog.New())

	require.NoError(t, r.Run())
	r.Wait()

	status := r.Status()
	assert.Equal(t, RunStateIdle, status.State)
	assert.Contains(t, status.Error, "unexpected status code 410")
	require.Len(t, r.History(), 1)
	assert.Equal(t, status.Error, r.History()[0].Error)
}

func TestRunner_Run_InProgress(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(testSheet))
	}))
	defer ts.Close()

	r := New(testLogger(), providerFor(ts.URL), catalog.New())

	require.NoError(t, r.Run())
	assert.True(t, r.IsRunning())
	assert.Equal(t, RunStateRunning, r.Status().State)

	err := r.Run()
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	r.Wait()

	assert.False(t, r.IsRunning())
	assert.Len(t, r.History(), 1)
}

func TestRunner_Run_NoSheetURL(t *testing.T) {
	r := New(testLogger(), providerFor(""), catalog.New())

	err := r.Run()
	assert.ErrorIs(t, err, importer.ErrNoSheetURL)
	assert.False(t, r.IsRunning())
	assert.Empty(t, r.History())
}

func TestRunner_Run_NoConfig(t *testing.T) {
	r := New(testLogger(), staticProvider{}, catalog.New())
	assert.Error(t, r.Run())
}

type failingStore struct {
	MemoryStore
}

func (s *failingStore) Save(RunStatus) error {
	return errors.New("disk full")
}

func TestRunner_StoreErrorIsLogged(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testSheet))
	}))
	defer ts.Close()

	r := New(testLogger(), providerFor(ts.URL), catalog.New(), WithStateStore(&failingStore{}))
	require.NoError(t, r.Run())
	r.Wait()

	assert.Equal(t, RunStateIdle, r.Status().State)
	assert.Empty(t, r.History())
}

func TestRunner_Metrics(t *testing.T) {
	var failing atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testSheet))
	}))
	defer ts.Close()

	registry, err := metrics.NewScrapeRegistry()
	require.NoError(t, err)
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	r := New(testLogger(), providerFor(ts.URL), catalog.New(), WithMetrics(m))

	require.NoError(t, r.Run())
	r.Wait()
	failing.Store(true)
	require.NoError(t, r.Run())
	r.Wait()

	prom := registry.PrometheusRegistry()
	count, err := testutil.GatherAndCount(prom, "imports_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	count, err = testutil.GatherAndCount(prom, "catalog_activities", "catalog_events", "import_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunState_String(t *testing.T) {
	assert.Equal(t, "idle", RunStateIdle.String())
	assert.Equal(t, "running", RunStateRunning.String())
	assert.Equal(t, "unknown", RunState(9).String())

	data, err := RunStateRunning.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"running"`, string(data))
}

func TestRunState_UnmarshalJSON(t *testing.T) {
	var status RunStatus
	require.NoError(t, json.Unmarshal([]byte(`{"state":"running"}`), &status))
	assert.Equal(t, RunStateRunning, status.State)

	require.NoError(t, json.Unmarshal([]byte(`{"state":"idle"}`), &status))
	assert.Equal(t, RunStateIdle, status.State)

	assert.Error(t, json.Unmarshal([]byte(`{"state":"paused"}`), &status))
	assert.Error(t, json.Unmarshal([]byte(`{"state":1}`), &status))
}
