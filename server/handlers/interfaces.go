// Package handlers provides HTTP handlers for the potential server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access server dependencies, avoiding
// circular imports.
package handlers

import (
	"time"

	"github.com/dnsco/potential/catalog"
	"github.com/dnsco/potential/server/config"
	"github.com/dnsco/potential/server/runner"
)

// ConfigProvider provides access to the current configuration.
type ConfigProvider interface {
	Config() *config.ServerConfig
}

// Reloader can reload its configuration.
type Reloader interface {
	ConfigProvider
	Reload() error
}

// ImportRunner can start imports.
type ImportRunner interface {
	Run() error
}

// RunStatusProvider provides access to import status.
type RunStatusProvider interface {
	Status() runner.RunStatus
}

// HistoryProvider provides access to import history.
type HistoryProvider interface {
	History() []runner.RunStatus
}

// ActivityLister lists catalog activities.
type ActivityLister interface {
	Activities() []catalog.Activity
}

// ActivityCreator adds activities to the catalog.
type ActivityCreator interface {
	Create(name string, parentID *int) (catalog.Activity, error)
}

// EventLister lists catalog events.
type EventLister interface {
	Events() []catalog.Event
}

// Resetter clears the catalog.
type Resetter interface {
	Reset()
}

// CatalogCounter reports catalog size.
type CatalogCounter interface {
	Counts() (activities, events int)
}

// Scheduler reports when the next scheduled import is due.
type Scheduler interface {
	NextRun() *time.Time
}
