package handlers

import (
	"net/http"
	"time"

	"github.com/dnsco/potential/server/runner"
	"github.com/dnsco/potential/server/types"
)

// NextRunResponse is the JSON response for the next scheduled import.
type NextRunResponse struct {
	Scheduled bool       `json:"scheduled"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

// CatalogStats is the size of the catalog.
type CatalogStats struct {
	Activities int `json:"activities"`
	Events     int `json:"events"`
}

// APIStatusResponse is the consolidated response for /api/status.
type APIStatusResponse struct {
	Server  types.ServerProperties `json:"server"`
	Run     runner.RunStatus       `json:"run"`
	NextRun NextRunResponse        `json:"next_run"`
	Catalog CatalogStats           `json:"catalog"`
}

// APIStatusHandler handles requests for the consolidated status endpoint.
type APIStatusHandler struct {
	properties types.ServerProperties
	status     RunStatusProvider
	scheduler  Scheduler
	counter    CatalogCounter
}

// NewAPIStatusHandler creates a new APIStatusHandler.
func NewAPIStatusHandler(props types.ServerProperties, status RunStatusProvider, scheduler Scheduler, counter CatalogCounter) *APIStatusHandler {
	return &APIStatusHandler{
		properties: props,
		status:     status,
		scheduler:  scheduler,
		counter:    counter,
	}
}

// ServeHTTP implements http.Handler.
func (h *APIStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	nextRun := h.scheduler.NextRun()
	activities, events := h.counter.Counts()

	writeJSON(w, http.StatusOK, APIStatusResponse{
		Server: h.properties,
		Run:    h.status.Status(),
		NextRun: NextRunResponse{
			Scheduled: nextRun != nil,
			NextRun:   nextRun,
		},
		Catalog: CatalogStats{
			Activities: activities,
			Events:     events,
		},
	})
}
