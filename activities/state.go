package activities

import "slices"

// Activity is a named entity returned by the activities endpoint.
type Activity struct {
	Name string `json:"name"`
}

// Status is the phase of the fetch lifecycle.
type Status int

const (
	// StatusWaiting indicates no fetch has been issued yet.
	StatusWaiting Status = iota
	// StatusFetching indicates a fetch is in flight.
	StatusFetching
	// StatusSuccess indicates the last applied fetch resolved with a payload.
	StatusSuccess
	// StatusFailed indicates the last applied fetch failed.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// State is a snapshot of the store: the last fetched activities and the fetch status.
type State struct {
	Activities []Activity `json:"activities"`
	Status     Status     `json:"status"`
}

// InitialState returns the state every store starts in.
func InitialState() State {
	return State{
		Activities: []Activity{},
		Status:     StatusWaiting,
	}
}

// clone returns a copy of the state that shares no memory with s.
func (s State) clone() State {
	acts := slices.Clone(s.Activities)
	if acts == nil {
		acts = []Activity{}
	}
	return State{
		Activities: acts,
		Status:     s.Status,
	}
}
