package festival

import (
	"log"
	"sort"
	"time"

	"fiestas-server/models"
)

// Schedule is the program as seen from one instant: today's festival day,
// the days still to come, and the event to highlight.
type Schedule struct {
	TodayDate   string                    `json:"today_festival_date"`
	Today       []models.Event            `json:"today"`
	FutureDates []string                  `json:"future_dates"`
	Future      map[string][]models.Event `json:"future"`
	Current     *models.Event             `json:"current_event"`
}

// Count returns how many events the schedule shows.
func (s Schedule) Count() int {
	n := len(s.Today)
	for _, bucket := range s.Future {
		n += len(bucket)
	}
	return n
}

type Grouper struct {
	clock    *Clock
	resolver *Resolver
}

func NewGrouper(resolver *Resolver) *Grouper {
	return &Grouper{clock: resolver.Clock(), resolver: resolver}
}

// GroupByFestivalDate buckets events by festival day, each bucket in program
// order. Entries with a malformed date or time are left out.
func (g *Grouper) GroupByFestivalDate(events []models.Event) map[string][]models.Event {
	buckets := make(map[string][]models.Event)
	for _, ev := range events {
		date, err := g.clock.FestivalDateOf(ev.Date, ev.Time)
		if err != nil {
			log.Printf("[Grouper] Skipping event %s: %v", ev.ID, err)
			continue
		}
		buckets[date] = append(buckets[date], ev)
	}
	for _, bucket := range buckets {
		g.SortBucket(bucket)
	}
	return buckets
}

// SortBucket orders one festival day in place. Entries are first laid out by
// time-of-day, with after-midnight entries last. Entries carrying an ordering
// key then swap among the positions they occupy so that keys ascend. Mixing
// keyed and unkeyed entries stays deterministic this way, whatever the input
// order.
func (g *Grouper) SortBucket(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return g.timeLess(events[i], events[j])
	})

	var slots []int
	var keyed []models.Event
	for i, ev := range events {
		if _, ok := ev.OrderKey(); ok {
			slots = append(slots, i)
			keyed = append(keyed, ev)
		}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		a, _ := keyed[i].OrderKey()
		b, _ := keyed[j].OrderKey()
		return a < b
	})
	for n, i := range slots {
		events[i] = keyed[n]
	}
}

func (g *Grouper) timeLess(a, b models.Event) bool {
	aEarly := g.clock.IsEarlyMorning(a.Time)
	bEarly := g.clock.IsEarlyMorning(b.Time)
	if aEarly != bEarly {
		return bEarly
	}
	return minuteOfDay(a.Time) < minuteOfDay(b.Time)
}

// SortedDates returns the keys of buckets in ascending order.
func SortedDates(buckets map[string][]models.Event) []string {
	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Build resolves statuses against now and arranges the events that pass keep.
func (g *Grouper) Build(events []models.Event, now time.Time, keep Predicate) Schedule {
	return g.Arrange(g.resolver.ResolveAll(events, now), now, keep)
}

// Arrange is Build for events whose Status is already set.
func (g *Grouper) Arrange(resolved []models.Event, now time.Time, keep Predicate) Schedule {
	kept := make([]models.Event, 0, len(resolved))
	for _, ev := range resolved {
		if keep == nil || keep(ev) {
			kept = append(kept, ev)
		}
	}

	today := g.clock.CurrentFestivalDate(now)
	buckets := g.GroupByFestivalDate(kept)

	schedule := Schedule{
		TodayDate:   today,
		Today:       []models.Event{},
		FutureDates: []string{},
		Future:      make(map[string][]models.Event),
	}
	if bucket, ok := buckets[today]; ok {
		schedule.Today = bucket
	}
	for _, date := range SortedDates(buckets) {
		if date > today {
			schedule.FutureDates = append(schedule.FutureDates, date)
			schedule.Future[date] = buckets[date]
		}
	}
	schedule.Current = currentEvent(schedule)
	return schedule
}

func currentEvent(s Schedule) *models.Event {
	for _, want := range []models.Status{models.StatusOngoing, models.StatusUpcoming} {
		for i := range s.Today {
			if s.Today[i].Status == want {
				ev := s.Today[i]
				return &ev
			}
		}
	}
	if len(s.FutureDates) > 0 {
		if bucket := s.Future[s.FutureDates[0]]; len(bucket) > 0 {
			ev := bucket[0]
			return &ev
		}
	}
	return nil
}
