package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fiestas-server/analytics"
	"fiestas-server/dao/redis"
	"fiestas-server/db"
	"fiestas-server/festival"
	"fiestas-server/imaging"
	"fiestas-server/models"
	services "fiestas-server/service"
	"fiestas-server/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testClientID = "7b0f5a4e-4c1e-4a53-9b5e-0d6f3f1c2a11"

var madrid = mustLocation("Europe/Madrid")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(date, tod string) time.Time {
	t, err := time.ParseInLocation(festival.DateLayout+" "+festival.TimeLayout, date+" "+tod, madrid)
	if err != nil {
		panic(err)
	}
	return t
}

func testEvent(id, date, tod string, category models.Category, eventType string) models.Event {
	return models.Event{
		ID:        id,
		Name:      "Evento " + id,
		Date:      date,
		Time:      tod,
		Location:  "Pza. Mayor",
		Organizer: "Ajuntament de Mislata",
		Category:  category,
		Type:      eventType,
	}
}

func sampleProgram() []models.Event {
	return []models.Event{
		testEvent("misa", "2025-08-30", "12:00", models.CategoryPatronales, "religioso"),
		testEvent("tarde", "2025-08-30", "18:00", models.CategoryPopulares, "cultural"),
		testEvent("verbena", "2025-08-30", "23:00", models.CategoryPopulares, "música"),
		testEvent("late", "2025-08-31", "01:30", models.CategoryPopulares, "concierto"),
		testEvent("procesion", "2025-08-31", "20:00", models.CategoryPatronales, "religioso"),
	}
}

type testApp struct {
	client    *db.MockRedisClient
	events    *services.EventService
	favorites *services.FavoritesService
	consents  *services.ConsentService
	photos    *services.PhotoService
	calendar  *services.CalendarService
	sink      *analytics.MemorySink
	tracker   *analytics.Tracker
	store     *storage.MemoryObjectStore
	limits    services.PhotoLimits
}

func newTestApp(t *testing.T, program []models.Event) *testApp {
	t.Helper()
	now := at("2025-08-30", "18:30")
	client := db.NewMockRedisClient(context.Background())
	client.SetNowFunc(func() time.Time { return now })

	eventDao := redis.NewRedisEventDAO(client)
	require.NoError(t, eventDao.ReplaceCatalog(program))

	resolver := festival.NewResolver(festival.NewClock(5, madrid), 2*time.Hour)
	events := services.NewEventService(eventDao, resolver, festival.NewLabeler(), services.FestivalSettings{
		Name:      "Fiestas de Mislata 2025",
		StartDate: "2025-08-23",
		EndDate:   "2025-09-06",
	}, 6*time.Hour)
	events.SetNowFunc(func() time.Time { return now })

	sink := analytics.NewMemorySink()
	store := storage.NewMemoryObjectStore("/media")
	limits := services.PhotoLimits{MaxFiles: 2, MaxFileBytes: 1 << 20}

	return &testApp{
		client:    client,
		events:    events,
		favorites: services.NewFavoritesService(redis.NewRedisFavoritesDAO(client)),
		consents:  services.NewConsentService(redis.NewRedisConsentDAO(client)),
		photos: services.NewPhotoService(events, redis.NewRedisPhotoDAO(client), store,
			imaging.NewCompressor(64, 16, 80, 0), limits),
		calendar: services.NewCalendarService(events, "Fiestas de Mislata 2025", 30),
		sink:     sink,
		tracker:  analytics.NewTracker(sink, false),
		store:    store,
		limits:   limits,
	}
}

// serve runs one request through a router holding a single route.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(WithClientID)
	router.HandleFunc(pattern, h).Methods(method)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func newRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(CLIENT_ID_HEADER, testClientID)
	return req
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
