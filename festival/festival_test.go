package festival

import (
	"time"

	"fiestas-server/models"
)

var madrid = mustLocation("Europe/Madrid")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func newTestClock() *Clock {
	return NewClock(5, madrid)
}

func newTestResolver() *Resolver {
	return NewResolver(newTestClock(), 2*time.Hour)
}

func at(date, tod string) time.Time {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+tod, madrid)
	if err != nil {
		panic(err)
	}
	return t
}

func event(id, date, tod string) models.Event {
	return models.Event{
		ID:       id,
		Name:     "Evento " + id,
		Date:     date,
		Time:     tod,
		Category: models.CategoryPopulares,
		Type:     "cultural",
	}
}

func strPtr(s string) *string {
	return &s
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}
