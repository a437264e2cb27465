package services

import (
	"fmt"
	"io"
	"log"

	"fiestas-server/festival"
	"fiestas-server/models"
	"fiestas-server/util"
)

const DEFAULT_REMINDER_MINUTES = 30

// CalendarService exports the program as an ICS file and as a chart page.
type CalendarService struct {
	events          *EventService
	name            string
	reminderMinutes int
}

func NewCalendarService(events *EventService, name string, reminderMinutes int) *CalendarService {
	return &CalendarService{events: events, name: name, reminderMinutes: reminderMinutes}
}

// WriteICS writes the events with the given IDs, or the whole program when ids is empty.
// Unknown IDs are skipped. It returns the number of exported events.
func (cs *CalendarService) WriteICS(w io.Writer, ids []string) (int, error) {
	catalog, err := cs.events.Catalog()
	if err != nil {
		return 0, err
	}

	selected := catalog
	if len(ids) > 0 {
		byID := make(map[string]models.Event, len(catalog))
		for _, ev := range catalog {
			byID[ev.ID] = ev
		}
		selected = make([]models.Event, 0, len(ids))
		for _, id := range ids {
			if ev, ok := byID[id]; ok {
				selected = append(selected, ev)
			}
		}
	}

	resolver := cs.events.Resolver()
	entries := make([]util.CalendarEntry, 0, len(selected))
	for _, ev := range selected {
		start, end, err := resolver.Window(ev, catalog)
		if err != nil {
			log.Printf("[CalendarService] Leaving %s out of the calendar: %v", ev.ID, err)
			continue
		}
		entries = append(entries, util.CalendarEntry{Event: ev, Start: start, End: end})
	}

	err = util.WriteICS(w, entries, util.CalendarOptions{
		Name:            cs.name,
		Timezone:        resolver.Clock().Location().String(),
		ReminderMinutes: cs.reminderMinutes,
		Stamp:           cs.events.Now(),
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// DayCounts counts events per festival date and category, in date order.
func (cs *CalendarService) DayCounts() ([]util.DayCount, error) {
	catalog, err := cs.events.Catalog()
	if err != nil {
		return nil, err
	}
	grouper := festival.NewGrouper(cs.events.Resolver())
	buckets := grouper.GroupByFestivalDate(catalog)

	days := make([]util.DayCount, 0, len(buckets))
	for _, date := range festival.SortedDates(buckets) {
		day := util.DayCount{Label: cs.events.Labeler().Tab(date)}
		for _, ev := range buckets[date] {
			switch ev.Category {
			case models.CategoryPatronales:
				day.Patronales++
			case models.CategoryPopulares:
				day.Populares++
			}
		}
		days = append(days, day)
	}
	return days, nil
}

func (cs *CalendarService) WriteChart(w io.Writer) error {
	days, err := cs.DayCounts()
	if err != nil {
		return err
	}
	if err := util.PlotEventsPerDay(w, cs.name, days); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
