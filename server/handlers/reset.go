package handlers

import (
	"log/slog"
	"net/http"
)

// ResetHandler handles requests to clear the catalog.
type ResetHandler struct {
	logger   *slog.Logger
	resetter Resetter
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(logger *slog.Logger, resetter Resetter) *ResetHandler {
	return &ResetHandler{
		logger:   logger,
		resetter: resetter,
	}
}

// ServeHTTP implements http.Handler.
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.resetter.Reset()
	h.logger.Info("catalog reset")
	w.WriteHeader(http.StatusNoContent)
}
