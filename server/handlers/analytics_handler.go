package handlers

import (
	"net/http"

	"fiestas-server/analytics"
)

type AnalyticsRequest struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

type AnalyticsResponse struct {
	Tracked bool `json:"tracked"`
}

// AnalyticsHandler accepts events reported by the web client. Events from
// clients without analytics consent are accepted and dropped.
type AnalyticsHandler struct {
	tracker  *analytics.Tracker
	consents ConsentLookup
}

func NewAnalyticsHandler(tracker *analytics.Tracker, consents ConsentLookup) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker, consents: consents}
}

func (h *AnalyticsHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req AnalyticsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !analytics.IsKnownEvent(req.Name) {
		writeError(w, http.StatusBadRequest, "Unknown analytics event "+req.Name)
		return
	}

	clientID := ClientID(r)
	tracked := h.tracker.Track(r.Context(), h.consents.Effective(clientID), analytics.Event{
		Name:     req.Name,
		ClientID: clientID,
		Params:   req.Params,
	})
	writeJSON(w, http.StatusAccepted, AnalyticsResponse{Tracked: tracked})
}
