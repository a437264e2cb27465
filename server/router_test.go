package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fiestas-server/analytics"
	"fiestas-server/dao/redis"
	"fiestas-server/db"
	"fiestas-server/festival"
	"fiestas-server/imaging"
	"fiestas-server/models"
	"fiestas-server/server/handlers"
	services "fiestas-server/service"
	"fiestas-server/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, mediaDir string) (*Router, *mux.Router) {
	t.Helper()
	client := db.NewMockRedisClient(context.Background())
	eventDao := redis.NewRedisEventDAO(client)
	require.NoError(t, eventDao.ReplaceCatalog([]models.Event{{
		ID: "fp001", Name: "Misa", Date: "2025-08-30", Time: "12:00",
		Category: models.CategoryPatronales, Type: "religioso",
	}}))

	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	resolver := festival.NewResolver(festival.NewClock(5, loc), 2*time.Hour)
	eventService := services.NewEventService(eventDao, resolver, festival.NewLabeler(),
		services.FestivalSettings{Name: "Fiestas"}, time.Hour)
	favoritesService := services.NewFavoritesService(redis.NewRedisFavoritesDAO(client))
	consentService := services.NewConsentService(redis.NewRedisConsentDAO(client))
	limits := services.PhotoLimits{MaxFiles: 5, MaxFileBytes: 1 << 20}
	photoService := services.NewPhotoService(eventService, redis.NewRedisPhotoDAO(client),
		storage.NewMemoryObjectStore("/media"), imaging.NewCompressor(64, 16, 80, 0), limits)
	calendarService := services.NewCalendarService(eventService, "Fiestas", 0)
	tracker := analytics.NewTracker(analytics.NopSink{}, false)

	muxRouter := mux.NewRouter()
	router := NewRouter(
		handlers.NewEventHandler(eventService, tracker, consentService),
		handlers.NewFavoritesHandler(favoritesService, eventService, tracker, consentService),
		handlers.NewConsentHandler(consentService),
		handlers.NewAnalyticsHandler(tracker, consentService),
		handlers.NewPhotoHandler(photoService, limits, tracker, consentService),
		handlers.NewCalendarHandler(calendarService, favoritesService, tracker, consentService),
		muxRouter,
	)
	if mediaDir != "" {
		router.ServeMedia("/media", mediaDir)
	}
	return router, muxRouter
}

func TestRouter_RegisterRoutes(t *testing.T) {
	mediaDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mediaDir, "original"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "original", "x.jpg"), []byte("jpeg"), 0o644))
	appRouter, router := newTestRouter(t, mediaDir)
	appRouter.RegisterRoutes()

	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{name: "Ping Route", method: "GET", path: "/ping", statusCode: http.StatusOK},
		{name: "List Events", method: "GET", path: "/v1/events", statusCode: http.StatusOK},
		{name: "Search is not an id", method: "GET", path: "/v1/events/search", statusCode: http.StatusBadRequest},
		{name: "Event By Category", method: "GET", path: "/v1/events/category/patronales", statusCode: http.StatusOK},
		{name: "Event By Status", method: "GET", path: "/v1/events/status/finished", statusCode: http.StatusOK},
		{name: "Event By ID", method: "GET", path: "/v1/events/fp001", statusCode: http.StatusOK},
		{name: "Unknown Event", method: "GET", path: "/v1/events/fp999", statusCode: http.StatusNotFound},
		{name: "Event Photos", method: "GET", path: "/v1/events/fp001/photos", statusCode: http.StatusOK},
		{name: "Schedule", method: "GET", path: "/v1/schedule", statusCode: http.StatusOK},
		{name: "Festival", method: "GET", path: "/v1/festival", statusCode: http.StatusOK},
		{name: "Favorites", method: "GET", path: "/v1/favorites", statusCode: http.StatusOK},
		{name: "Toggle Favorite", method: "POST", path: "/v1/favorites/fp001/toggle", statusCode: http.StatusOK},
		{name: "Consent", method: "GET", path: "/v1/consent", statusCode: http.StatusOK},
		{name: "Accept All", method: "POST", path: "/v1/consent/accept-all", statusCode: http.StatusOK},
		{name: "Report Unknown Photo", method: "POST", path: "/v1/photos/p1/report", statusCode: http.StatusNotFound},
		{name: "Calendar", method: "GET", path: "/v1/calendar.ics", statusCode: http.StatusOK},
		{name: "Chart", method: "GET", path: "/v1/calendar/chart", statusCode: http.StatusOK},
		{name: "Media", method: "GET", path: "/media/original/x.jpg", statusCode: http.StatusOK},
		{name: "Wrong Method", method: "DELETE", path: "/v1/events", statusCode: http.StatusMethodNotAllowed},
		{name: "Invalid Route", method: "GET", path: "/invalid", statusCode: http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, test.statusCode, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_MintsClientID(t *testing.T) {
	appRouter, router := newTestRouter(t, "")
	appRouter.RegisterRoutes()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/favorites", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(handlers.CLIENT_ID_HEADER))
}

func TestRouter_WrongMethodWithoutMedia(t *testing.T) {
	appRouter, router := newTestRouter(t, "")
	appRouter.RegisterRoutes()

	for _, target := range []string{"/v1/events", "/v1/schedule", "/v1/events/fp001"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("DELETE", target, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, target)
	}
}

func TestFestivalHttpServer_StopsWithContext(t *testing.T) {
	router, muxRouter := newTestRouter(t, "")
	srv := NewFestivalHttpServer(router, muxRouter, "127.0.0.1:0", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
