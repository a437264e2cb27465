package handlers

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"fiestas-server/analytics"
	services "fiestas-server/service"
)

const (
	IDS_ARG          = "ids"
	FAVORITES_ARG    = "favorites"
	ICS_CONTENT_TYPE = "text/calendar; charset=utf-8"
	ICS_FILENAME     = "fiestas-mislata.ics"
)

type CalendarHandler struct {
	calendarService  *services.CalendarService
	favoritesService *services.FavoritesService
	tracker          *analytics.Tracker
	consents         ConsentLookup
}

func NewCalendarHandler(
	calendarService *services.CalendarService,
	favoritesService *services.FavoritesService,
	tracker *analytics.Tracker,
	consents ConsentLookup) *CalendarHandler {

	return &CalendarHandler{
		calendarService:  calendarService,
		favoritesService: favoritesService,
		tracker:          tracker,
		consents:         consents,
	}
}

// GetICS handles GET /v1/calendar.ics, optionally limited by ?ids= or ?favorites=true.
func (h *CalendarHandler) GetICS(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	clientID := ClientID(r)

	ids := splitArgs(vals[IDS_ARG])
	if v := vals.Get(FAVORITES_ARG); v != "" {
		onlyFavorites, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid argument "+FAVORITES_ARG)
			return
		}
		if onlyFavorites {
			favs, err := h.favoritesService.Favorites(clientID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			if len(favs) == 0 {
				writeError(w, http.StatusNotFound, "No favorite events to export")
				return
			}
			ids = favs
		}
	}

	var buf bytes.Buffer
	n, err := h.calendarService.WriteICS(&buf, ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.tracker.TrackCalendarOpen(r.Context(), h.consents.Effective(clientID), clientID, n)

	w.Header().Set("Content-Type", ICS_CONTENT_TYPE)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ICS_FILENAME+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Println("Error writing calendar:", err)
	}
}

// GetChart handles GET /v1/calendar/chart.
func (h *CalendarHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.calendarService.WriteChart(&buf); err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Println("Error writing chart:", err)
	}
}
