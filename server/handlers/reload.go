package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dnsco/potential/server/config"
)

// ReloadResponse reports the outcome of a successful reload.
type ReloadResponse struct {
	LogLevel string `json:"log_level"`
	// RestartRequired lists changed settings that only take effect after a restart.
	RestartRequired []string `json:"restart_required"`
}

// ReloadHandler handles requests to reload configuration from disk.
type ReloadHandler struct {
	logger   *slog.Logger
	reloader Reloader
}

// NewReloadHandler creates a new ReloadHandler.
func NewReloadHandler(logger *slog.Logger, reloader Reloader) *ReloadHandler {
	return &ReloadHandler{
		logger:   logger,
		reloader: reloader,
	}
}

// ServeHTTP implements http.Handler.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("reloading configuration")
	before := h.reloader.Config()

	if err := h.reloader.Reload(); err != nil {
		h.logger.Error("failed to reload configuration", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reload configuration: %v", err)
		return
	}

	after := h.reloader.Config()
	resp := ReloadResponse{
		LogLevel:        after.LogLevel,
		RestartRequired: restartRequired(before, after),
	}
	if len(resp.RestartRequired) > 0 {
		h.logger.Warn("configuration changes need a restart", "settings", resp.RestartRequired)
	}

	h.logger.Info("configuration reloaded successfully")
	writeJSON(w, http.StatusOK, resp)
}

// restartRequired names the settings that differ between before and after
// but are only read at startup.
func restartRequired(before, after *config.ServerConfig) []string {
	changed := []string{}
	if before == nil || after == nil {
		return changed
	}
	if before.Listener != after.Listener {
		changed = append(changed, "listener")
	}
	if before.CORS != after.CORS {
		changed = append(changed, "cors")
	}
	if before.Import.Schedule != after.Import.Schedule {
		changed = append(changed, "import.schedule")
	}
	return changed
}
