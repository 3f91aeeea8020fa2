package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dnsco/potential/importer"
	"github.com/dnsco/potential/server/runner"
)

// ImportHandler handles requests to start a sheet import.
type ImportHandler struct {
	logger *slog.Logger
	runner ImportRunner
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(logger *slog.Logger, r ImportRunner) *ImportHandler {
	return &ImportHandler{
		logger: logger,
		runner: r,
	}
}

// ServeHTTP implements http.Handler.
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h.runner.Run()
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, runner.ErrRunInProgress):
		writeError(w, http.StatusConflict, "%v", err)
	case errors.Is(err, importer.ErrNoSheetURL):
		writeError(w, http.StatusServiceUnavailable, "%v", err)
	default:
		h.logger.Error("failed to start import", "error", err)
		writeError(w, http.StatusInternalServerError, "%v", err)
	}
}
