package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dnsco/potential/catalog"
)

// CreateActivityRequest defines the request body for POST /api/activities.
type CreateActivityRequest struct {
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id,omitempty"`
}

// ActivitiesHandler lists catalog activities.
type ActivitiesHandler struct {
	lister ActivityLister
}

// NewActivitiesHandler creates a new ActivitiesHandler.
func NewActivitiesHandler(lister ActivityLister) *ActivitiesHandler {
	return &ActivitiesHandler{lister: lister}
}

// ServeHTTP implements http.Handler.
func (h *ActivitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lister.Activities())
}

// CreateActivityHandler adds an activity to the catalog.
type CreateActivityHandler struct {
	logger  *slog.Logger
	creator ActivityCreator
}

// NewCreateActivityHandler creates a new CreateActivityHandler.
func NewCreateActivityHandler(logger *slog.Logger, creator ActivityCreator) *CreateActivityHandler {
	return &CreateActivityHandler{
		logger:  logger,
		creator: creator,
	}
}

// ServeHTTP implements http.Handler.
func (h *CreateActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}

	activity, err := h.creator.Create(req.Name, req.ParentID)
	switch {
	case errors.Is(err, catalog.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	case err != nil:
		h.logger.Error("failed to create activity", "error", err)
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	h.logger.Info("activity created", "id", activity.ID, "name", activity.Name)
	writeJSON(w, http.StatusCreated, activity)
}
