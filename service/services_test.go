package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fiestas-server/dao/redis"
	"fiestas-server/db"
	"fiestas-server/festival"
	"fiestas-server/models"

	"github.com/stretchr/testify/require"
)

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

// sampleProgram spans two festival days; "late" starts after midnight and
// belongs to the night of the 30th.
func sampleProgram() []models.Event {
	return []models.Event{
		testEvent("misa", "2025-08-30", "12:00", models.CategoryPatronales, "religioso"),
		testEvent("verbena", "2025-08-30", "23:00", models.CategoryPopulares, "música"),
		testEvent("late", "2025-08-31", "01:30", models.CategoryPopulares, "concierto"),
		testEvent("tarde", "2025-08-30", "18:00", models.CategoryPopulares, "cultural"),
		testEvent("procesion", "2025-08-31", "20:00", models.CategoryPatronales, "religioso"),
	}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}

type eventFixture struct {
	client  *db.MockRedisClient
	dao     *redis.RedisEventDAO
	service *EventService
}

func newEventFixture(t *testing.T, events []models.Event, now time.Time) *eventFixture {
	t.Helper()
	client := db.NewMockRedisClient(context.Background())
	client.SetNowFunc(func() time.Time { return now })
	dao := redis.NewRedisEventDAO(client)
	require.NoError(t, dao.ReplaceCatalog(events))

	resolver := festival.NewResolver(festival.NewClock(5, madrid), 2*time.Hour)
	svc := NewEventService(dao, resolver, festival.NewLabeler(), FestivalSettings{
		Name:      "Fiestas de Mislata 2025",
		StartDate: "2025-08-23",
		EndDate:   "2025-09-06",
	}, 6*time.Hour)
	svc.SetNowFunc(func() time.Time { return now })
	return &eventFixture{client: client, dao: dao, service: svc}
}

// brokenRedisClient fails every read, like an unreachable server.
type brokenRedisClient struct {
	*db.MockRedisClient
}

func (b *brokenRedisClient) Get(string) (string, error) {
	return "", errors.New("connection refused")
}

func (b *brokenRedisClient) Keys(string) ([]string, error) {
	return nil, errors.New("connection refused")
}

type staticSource struct {
	events []models.Event
	err    error
	calls  int
}

func (s *staticSource) LoadEvents(context.Context) ([]models.Event, error) {
	s.calls++
	return s.events, s.err
}
