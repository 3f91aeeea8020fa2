package handlers

import "net/http"

// EventsHandler lists catalog activity events.
type EventsHandler struct {
	lister EventLister
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(lister EventLister) *EventsHandler {
	return &EventsHandler{lister: lister}
}

// ServeHTTP implements http.Handler.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lister.Events())
}
