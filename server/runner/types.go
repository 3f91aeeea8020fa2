package runner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dnsco/potential/importer"
	"github.com/dnsco/potential/logging"
)

// RunState represents the current state of an import.
type RunState int

const (
	// RunStateIdle indicates no import is running.
	RunStateIdle RunState = iota
	// RunStateRunning indicates an import is in progress.
	RunStateRunning
)

// String returns the string representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s RunState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *RunState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "idle":
		*s = RunStateIdle
	case "running":
		*s = RunStateRunning
	default:
		return fmt.Errorf("unknown run state %q", name)
	}
	return nil
}

// RunStatus contains information about the current or last import.
type RunStatus struct {
	// ID identifies a finished import. Empty while running.
	ID string `json:"id,omitempty"`
	// State is the current state of the run.
	State RunState `json:"state"`
	// StartedAt is when the run started. Nil if no run has occurred.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// EndedAt is when the run ended. Nil if run is in progress or no run has occurred.
	EndedAt *time.Time `json:"ended_at,omitempty"`
	// Error contains the error message if the run failed. Empty on success.
	Error string `json:"error,omitempty"`
	// Result holds the import counts once the run has ended.
	Result *importer.Result `json:"result,omitempty"`
	// Logs are the log records emitted during the run.
	Logs []logging.LogEntry `json:"logs,omitempty"`
}
