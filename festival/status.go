package festival

import (
	"log"
	"time"

	"fiestas-server/models"
)

// Resolver derives an event's live status from the clock. An event ends when
// the next entry of the same festival day starts, or after the default
// duration when it is the last one.
type Resolver struct {
	clock           *Clock
	defaultDuration time.Duration
}

func NewResolver(clock *Clock, defaultDuration time.Duration) *Resolver {
	return &Resolver{clock: clock, defaultDuration: defaultDuration}
}

func (r *Resolver) Clock() *Clock {
	return r.clock
}

// Window returns the [start, end) interval of ev. Siblings from other
// festival days and malformed siblings are ignored.
func (r *Resolver) Window(ev models.Event, siblings []models.Event) (time.Time, time.Time, error) {
	start, err := r.clock.Start(ev.Date, ev.Time)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	festivalDate, err := r.clock.FestivalDateOf(ev.Date, ev.Time)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var next time.Time
	found := false
	for _, s := range siblings {
		sDate, err := r.clock.FestivalDateOf(s.Date, s.Time)
		if err != nil || sDate != festivalDate {
			continue
		}
		sStart, err := r.clock.Start(s.Date, s.Time)
		if err != nil || !sStart.After(start) {
			continue
		}
		if !found || sStart.Before(next) {
			next = sStart
			found = true
		}
	}

	if found {
		return start, next, nil
	}
	return start, start.Add(r.defaultDuration), nil
}

// Resolve never fails: malformed entries are reported as upcoming.
func (r *Resolver) Resolve(ev models.Event, now time.Time, siblings []models.Event) models.Status {
	start, end, err := r.Window(ev, siblings)
	if err != nil {
		log.Printf("[StatusResolver] Defaulting event %s to upcoming: %v", ev.ID, err)
		return models.StatusUpcoming
	}
	switch {
	case now.Before(start):
		return models.StatusUpcoming
	case now.Before(end):
		return models.StatusOngoing
	default:
		return models.StatusFinished
	}
}

// ResolveAll returns copies of events with Status filled in.
func (r *Resolver) ResolveAll(events []models.Event, now time.Time) []models.Event {
	byDate := make(map[string][]models.Event)
	for _, ev := range events {
		if date, err := r.clock.FestivalDateOf(ev.Date, ev.Time); err == nil {
			byDate[date] = append(byDate[date], ev)
		}
	}

	out := make([]models.Event, len(events))
	for i, ev := range events {
		date, _ := r.clock.FestivalDateOf(ev.Date, ev.Time)
		ev.Status = r.Resolve(ev, now, byDate[date])
		out[i] = ev
	}
	return out
}
