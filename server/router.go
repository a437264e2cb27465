package server

import (
	"net/http"
	"strings"

	"fiestas-server/server/handlers"

	"github.com/gorilla/mux"
)

type Router struct {
	eventHandler     *handlers.EventHandler
	favoritesHandler *handlers.FavoritesHandler
	consentHandler   *handlers.ConsentHandler
	analyticsHandler *handlers.AnalyticsHandler
	photoHandler     *handlers.PhotoHandler
	calendarHandler  *handlers.CalendarHandler
	router           *mux.Router

	mediaPrefix string
	mediaDir    string
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	eventHandler *handlers.EventHandler,
	favoritesHandler *handlers.FavoritesHandler,
	consentHandler *handlers.ConsentHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	photoHandler *handlers.PhotoHandler,
	calendarHandler *handlers.CalendarHandler,
	router *mux.Router) *Router {
	return &Router{
		eventHandler:     eventHandler,
		favoritesHandler: favoritesHandler,
		consentHandler:   consentHandler,
		analyticsHandler: analyticsHandler,
		photoHandler:     photoHandler,
		calendarHandler:  calendarHandler,
		router:           router,
	}
}

// ServeMedia exposes a local photo directory under prefix.
func (r *Router) ServeMedia(prefix, dir string) {
	r.mediaPrefix = "/" + strings.Trim(prefix, "/") + "/"
	r.mediaDir = dir
}

func (r *Router) RegisterRoutes() {
	r.router.Use(handlers.WithClientID)

	// search, category and status must be registered before {id}
	r.router.HandleFunc("/v1/events", r.eventHandler.GetEvents).Methods("GET")
	r.router.HandleFunc("/v1/events/search", r.eventHandler.SearchEvents).Methods("GET")
	r.router.HandleFunc("/v1/events/category/{category}", r.eventHandler.GetEventsByCategory).Methods("GET")
	r.router.HandleFunc("/v1/events/status/{status}", r.eventHandler.GetEventsByStatus).Methods("GET")
	r.router.HandleFunc("/v1/events/{id}", r.eventHandler.GetEvent).Methods("GET")
	r.router.HandleFunc("/v1/events/{id}/status", r.eventHandler.UpdateEventStatus).Methods("PATCH")
	r.router.HandleFunc("/v1/events/{id}/photos", r.photoHandler.ListPhotos).Methods("GET")
	r.router.HandleFunc("/v1/events/{id}/photos", r.photoHandler.UploadPhotos).Methods("POST")

	r.router.HandleFunc("/v1/schedule", r.eventHandler.GetSchedule).Methods("GET")
	r.router.HandleFunc("/v1/festival", r.eventHandler.GetFestival).Methods("GET")

	r.router.HandleFunc("/v1/favorites", r.favoritesHandler.GetFavorites).Methods("GET")
	r.router.HandleFunc("/v1/favorites", r.favoritesHandler.ReplaceFavorites).Methods("PUT")
	r.router.HandleFunc("/v1/favorites", r.favoritesHandler.ClearFavorites).Methods("DELETE")
	r.router.HandleFunc("/v1/favorites/{id}/toggle", r.favoritesHandler.ToggleFavorite).Methods("POST")

	r.router.HandleFunc("/v1/consent", r.consentHandler.GetConsent).Methods("GET")
	r.router.HandleFunc("/v1/consent", r.consentHandler.SetConsent).Methods("PUT")
	r.router.HandleFunc("/v1/consent", r.consentHandler.ResetConsent).Methods("DELETE")
	r.router.HandleFunc("/v1/consent/accept-all", r.consentHandler.AcceptAll).Methods("POST")
	r.router.HandleFunc("/v1/consent/accept-necessary", r.consentHandler.AcceptNecessary).Methods("POST")

	r.router.HandleFunc("/v1/analytics/events", r.analyticsHandler.PostEvent).Methods("POST")

	r.router.HandleFunc("/v1/photos/{id}/report", r.photoHandler.ReportPhoto).Methods("POST")
	r.router.HandleFunc("/v1/photos/{id}", r.photoHandler.DeletePhoto).Methods("DELETE")

	r.router.HandleFunc("/v1/calendar.ics", r.calendarHandler.GetICS).Methods("GET")
	r.router.HandleFunc("/v1/calendar/chart", r.calendarHandler.GetChart).Methods("GET")

	r.router.HandleFunc("/ping", r.eventHandler.Ping).Methods("GET")

	if r.mediaDir != "" {
		r.router.PathPrefix(r.mediaPrefix).Handler(
			http.StripPrefix(r.mediaPrefix, http.FileServer(http.Dir(r.mediaDir)))).Methods("GET")
	}
}
