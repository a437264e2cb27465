package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"fiestas-server/analytics"
	"fiestas-server/festival"
	"fiestas-server/models"
	services "fiestas-server/service"

	"github.com/gorilla/mux"
)

const (
	QUERY_ARG    = "q"
	CATEGORY_ARG = "category"
	STATUS_ARG   = "status"
	TYPE_ARG     = "type"
	FROM_ARG     = "from"
	TO_ARG       = "to"

	// MUSICAL_TYPE selects every music entry of the program.
	MUSICAL_TYPE = "musical"
)

type EventsResponse struct {
	Events []models.Event `json:"events"`
	Total  int            `json:"total"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type EventHandler struct {
	eventService *services.EventService
	tracker      *analytics.Tracker
	consents     ConsentLookup
}

func NewEventHandler(eventService *services.EventService, tracker *analytics.Tracker, consents ConsentLookup) *EventHandler {
	return &EventHandler{eventService: eventService, tracker: tracker, consents: consents}
}

// GetEvents handles GET /v1/events with optional q, category, status, type, from and to.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	filters, err := parseFilters(vals)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.eventService.ListEvents(filters...)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if q := strings.TrimSpace(vals.Get(QUERY_ARG)); q != "" {
		h.tracker.TrackSearch(r.Context(), h.consents.Effective(ClientID(r)), ClientID(r), q, len(events))
	}
	if containsFold(vals[STATUS_ARG], string(models.StatusOngoing)) {
		h.tracker.TrackOngoingInterest(r.Context(), h.consents.Effective(ClientID(r)), ClientID(r), len(events))
	}
	writeJSON(w, http.StatusOK, EventsResponse{Events: events, Total: len(events)})
}

// GetEventsByCategory handles GET /v1/events/category/{category}.
func (h *EventHandler) GetEventsByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := h.eventService.EventsByCategory(category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEventsByStatus handles GET /v1/events/status/{status}.
func (h *EventHandler) GetEventsByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseStatus(mux.Vars(r)["status"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := h.eventService.EventsByStatus(status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if status == models.StatusOngoing {
		h.tracker.TrackOngoingInterest(r.Context(), h.consents.Effective(ClientID(r)), ClientID(r), len(events))
	}
	writeJSON(w, http.StatusOK, events)
}

// SearchEvents handles GET /v1/events/search?q=.
func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get(QUERY_ARG))
	if q == "" {
		writeError(w, http.StatusBadRequest, "Missing argument "+QUERY_ARG)
		return
	}
	events, err := h.eventService.SearchEvents(q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.tracker.TrackSearch(r.Context(), h.consents.Effective(ClientID(r)), ClientID(r), q, len(events))
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.eventService.GetEvent(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// UpdateEventStatus handles PATCH /v1/events/{id}/status.
func (h *EventHandler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ev, err := h.eventService.UpdateStatus(mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// GetSchedule handles GET /v1/schedule. It accepts the same filters as GetEvents.
func (h *EventHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.eventService.Schedule(filters...)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.tracker.TrackPageView(r.Context(), h.consents.Effective(ClientID(r)), ClientID(r), r.URL.Path)
	writeJSON(w, http.StatusOK, view)
}

func (h *EventHandler) GetFestival(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eventService.Festival())
}

// Ping handles GET /ping
func (h *EventHandler) Ping(w http.ResponseWriter, r *http.Request) {
	log.Println("Pinging server")
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// parseFilters turns query arguments into festival filters. Repeated
// arguments widen a criterion, different arguments narrow the result.
func parseFilters(vals url.Values) ([]festival.Filter, error) {
	var filters []festival.Filter

	if q := strings.TrimSpace(vals.Get(QUERY_ARG)); q != "" {
		filters = append(filters, festival.SearchFilter{Query: q})
	}

	if raw := splitArgs(vals[CATEGORY_ARG]); len(raw) > 0 {
		f := festival.CategoryFilter{}
		for _, s := range raw {
			c, err := models.ParseCategory(s)
			if err != nil {
				return nil, err
			}
			f.Categories = append(f.Categories, c)
		}
		filters = append(filters, f)
	}

	if raw := splitArgs(vals[STATUS_ARG]); len(raw) > 0 {
		f := festival.StatusFilter{}
		for _, s := range raw {
			st, err := models.ParseStatus(s)
			if err != nil {
				return nil, err
			}
			f.Statuses = append(f.Statuses, st)
		}
		filters = append(filters, f)
	}

	if raw := splitArgs(vals[TYPE_ARG]); len(raw) > 0 {
		f := festival.TypeFilter{}
		for _, s := range raw {
			if strings.EqualFold(s, MUSICAL_TYPE) {
				f.Types = append(f.Types, festival.MusicalTypes.Types...)
				continue
			}
			f.Types = append(f.Types, s)
		}
		filters = append(filters, f)
	}

	from, to := vals.Get(FROM_ARG), vals.Get(TO_ARG)
	for arg, date := range map[string]string{FROM_ARG: from, TO_ARG: to} {
		if date == "" {
			continue
		}
		if _, err := festival.ParseDate(date); err != nil {
			return nil, fmt.Errorf("invalid argument %s: %w", arg, err)
		}
	}
	if from != "" && to != "" && from > to {
		return nil, errors.New("invalid date range: from is after to")
	}
	if from != "" || to != "" {
		filters = append(filters, festival.DateRangeFilter{From: from, To: to})
	}
	return filters, nil
}

// splitArgs accepts both ?a=x&a=y and ?a=x,y.
func splitArgs(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func containsFold(values []string, want string) bool {
	for _, v := range splitArgs(values) {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
