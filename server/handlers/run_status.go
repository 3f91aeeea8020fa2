package handlers

import (
	"net/http"
	"strconv"
)

// RunStatusHandler serves the current import status. Pollers can pass
// ?since=N to receive only the log entries after the first N.
type RunStatusHandler struct {
	provider RunStatusProvider
}

// NewRunStatusHandler creates a new RunStatusHandler.
func NewRunStatusHandler(provider RunStatusProvider) *RunStatusHandler {
	return &RunStatusHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *RunStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.provider.Status()

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := strconv.Atoi(raw)
		if err != nil || since < 0 {
			writeError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		status.Logs = status.Logs[min(since, len(status.Logs)):]
	}

	writeJSON(w, http.StatusOK, status)
}
