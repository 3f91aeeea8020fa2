package handlers

import (
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ConfigHandler serves the current configuration with secrets removed.
// The body is YAML unless ?format=json is given.
type ConfigHandler struct {
	provider ConfigProvider
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(provider ConfigProvider) *ConfigHandler {
	return &ConfigHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg := h.provider.Config()
	if cfg == nil {
		writeError(w, http.StatusServiceUnavailable, "no configuration loaded")
		return
	}
	redacted := cfg.Redacted()

	switch format := r.URL.Query().Get("format"); format {
	case "json":
		writeJSON(w, http.StatusOK, redacted)
	case "", "yaml":
		w.Header().Set("Content-Type", "text/yaml")
		w.WriteHeader(http.StatusOK)
		if err := yaml.NewEncoder(w).Encode(redacted); err != nil {
			slog.Error("failed to encode YAML response", "error", err)
		}
	default:
		writeError(w, http.StatusBadRequest, "unsupported format %q", format)
	}
}
