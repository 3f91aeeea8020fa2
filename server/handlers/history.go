package handlers

import (
	"net/http"
	"strconv"
)

// HistoryHandler lists finished imports, most recent first, without their
// logs. ?limit=N returns at most N runs.
type HistoryHandler struct {
	provider HistoryProvider
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(provider HistoryProvider) *HistoryHandler {
	return &HistoryHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	history := h.provider.History()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		history = history[:min(limit, len(history))]
	}

	for i := range history {
		history[i].Logs = nil
	}
	writeJSON(w, http.StatusOK, history)
}

// HistoryLogsHandler serves the logs of the finished import named by ?id=.
type HistoryLogsHandler struct {
	provider HistoryProvider
}

// NewHistoryLogsHandler creates a new HistoryLogsHandler.
func NewHistoryLogsHandler(provider HistoryProvider) *HistoryLogsHandler {
	return &HistoryLogsHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *HistoryLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing run id")
		return
	}

	for _, run := range h.provider.History() {
		if run.ID == id {
			writeJSON(w, http.StatusOK, run.Logs)
			return
		}
	}
	writeError(w, http.StatusNotFound, "run %s not found", id)
}
