package services

import (
	"fmt"
	"log"
	"time"

	"fiestas-server/api"
	"fiestas-server/dao/redis"
	"fiestas-server/festival"
	"fiestas-server/models"
)

type ScheduleState string

const (
	SCHEDULE_OK                ScheduleState = "ok"
	SCHEDULE_NO_RESULTS        ScheduleState = "no_results"
	SCHEDULE_NO_EVENTS         ScheduleState = "no_events"
	SCHEDULE_FESTIVAL_FINISHED ScheduleState = "festival_finished"
)

// ScheduleView is the schedule plus what the client needs to pick an empty state.
type ScheduleView struct {
	festival.Schedule
	State      ScheduleState     `json:"state"`
	Total      int               `json:"total"`
	DateLabels map[string]string `json:"date_labels"`
}

type FestivalSettings struct {
	Name      string
	StartDate string
	EndDate   string
}

type FestivalInfo struct {
	Name              string `json:"name"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	TodayFestivalDate string `json:"today_festival_date"`
	TodayLabel        string `json:"today_label"`
	Started           bool   `json:"started"`
	Finished          bool   `json:"finished"`
	CutoverHour       int    `json:"cutover_hour"`
	Timezone          string `json:"timezone"`
}

// EventService answers every read of the program. Statuses are resolved on
// each call against the current time, then manual overrides are applied.
type EventService struct {
	eventDao    *redis.RedisEventDAO
	resolver    *festival.Resolver
	grouper     *festival.Grouper
	labeler     *festival.Labeler
	settings    FestivalSettings
	overrideTTL time.Duration
	now         func() time.Time
}

func NewEventService(
	eventDao *redis.RedisEventDAO,
	resolver *festival.Resolver,
	labeler *festival.Labeler,
	settings FestivalSettings,
	overrideTTL time.Duration) *EventService {

	return &EventService{
		eventDao:    eventDao,
		resolver:    resolver,
		grouper:     festival.NewGrouper(resolver),
		labeler:     labeler,
		settings:    settings,
		overrideTTL: overrideTTL,
		now:         time.Now,
	}
}

// SetNowFunc replaces the service clock.
func (es *EventService) SetNowFunc(now func() time.Time) {
	es.now = now
}

func (es *EventService) Now() time.Time {
	return es.now()
}

func (es *EventService) Clock() *festival.Clock {
	return es.resolver.Clock()
}

func (es *EventService) Resolver() *festival.Resolver {
	return es.resolver
}

func (es *EventService) Labeler() *festival.Labeler {
	return es.labeler
}

// Catalog returns the stored program without statuses. Until a load has
// succeeded there is no catalog, which is reported as unavailable rather
// than empty.
func (es *EventService) Catalog() ([]models.Event, error) {
	events, err := es.eventDao.ListEvents()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", api.ErrDataSourceUnavailable, err)
	}
	return events, nil
}

func (es *EventService) resolved(now time.Time) ([]models.Event, error) {
	catalog, err := es.Catalog()
	if err != nil {
		return nil, err
	}
	events := es.resolver.ResolveAll(catalog, now)

	overrides, err := es.eventDao.ListStatusOverrides()
	if err != nil {
		log.Printf("[EventService] Ignoring status overrides: %v", err)
		return events, nil
	}
	for i := range events {
		if st, ok := overrides[events[i].ID]; ok {
			events[i].Status = st
		}
	}
	return events, nil
}

// ListEvents returns the events that pass every filter, in program order:
// festival day ascending, then the day's own order. Entries with malformed
// dates come last.
func (es *EventService) ListEvents(filters ...festival.Filter) ([]models.Event, error) {
	events, err := es.resolved(es.now())
	if err != nil {
		return nil, err
	}

	keep := festival.Compose(es.Clock(), filters...)
	kept := make([]models.Event, 0, len(events))
	var malformed []models.Event
	for _, ev := range events {
		if !keep(ev) {
			continue
		}
		if _, err := es.Clock().FestivalDateOf(ev.Date, ev.Time); err != nil {
			malformed = append(malformed, ev)
			continue
		}
		kept = append(kept, ev)
	}

	buckets := es.grouper.GroupByFestivalDate(kept)
	out := make([]models.Event, 0, len(kept)+len(malformed))
	for _, date := range festival.SortedDates(buckets) {
		out = append(out, buckets[date]...)
	}
	return append(out, malformed...), nil
}

func (es *EventService) GetEvent(id string) (*models.Event, error) {
	events, err := es.resolved(es.now())
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if ev.ID == id {
			return &ev, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

func (es *EventService) EventsByCategory(category models.Category) ([]models.Event, error) {
	return es.ListEvents(festival.CategoryFilter{Categories: []models.Category{category}})
}

func (es *EventService) EventsByStatus(status models.Status) ([]models.Event, error) {
	return es.ListEvents(festival.StatusFilter{Statuses: []models.Status{status}})
}

func (es *EventService) SearchEvents(query string) ([]models.Event, error) {
	return es.ListEvents(festival.SearchFilter{Query: query})
}

// UpdateStatus stores a manual status that expires after the override TTL.
func (es *EventService) UpdateStatus(id, rawStatus string) (*models.Event, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	ev, err := es.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if err := es.eventDao.SetStatusOverride(id, status, es.overrideTTL); err != nil {
		return nil, err
	}
	log.Printf("[EventService] Status of %s overridden to %s for %s", id, status, es.overrideTTL)
	ev.Status = status
	return ev, nil
}

// Schedule builds today's and the coming days' program for the filters.
func (es *EventService) Schedule(filters ...festival.Filter) (*ScheduleView, error) {
	now := es.now()
	events, err := es.resolved(now)
	if err != nil {
		return nil, err
	}

	schedule := es.grouper.Arrange(events, now, festival.Compose(es.Clock(), filters...))
	view := &ScheduleView{
		Schedule: schedule,
		Total:    schedule.Count(),
	}

	switch {
	case len(events) == 0:
		view.State = SCHEDULE_NO_EVENTS
	case view.Total > 0:
		view.State = SCHEDULE_OK
	case es.grouper.Arrange(events, now, nil).Count() == 0:
		view.State = SCHEDULE_FESTIVAL_FINISHED
	default:
		view.State = SCHEDULE_NO_RESULTS
	}

	dates := append([]string{schedule.TodayDate}, schedule.FutureDates...)
	view.DateLabels = es.labeler.Labels(dates)
	return view, nil
}

func (es *EventService) Festival() FestivalInfo {
	now := es.now()
	clock := es.Clock()
	today := clock.CurrentFestivalDate(now)
	return FestivalInfo{
		Name:              es.settings.Name,
		StartDate:         es.settings.StartDate,
		EndDate:           es.settings.EndDate,
		TodayFestivalDate: today,
		TodayLabel:        es.labeler.Today(clock, now),
		Started:           today >= es.settings.StartDate,
		Finished:          today > es.settings.EndDate,
		CutoverHour:       clock.CutoverHour(),
		Timezone:          clock.Location().String(),
	}
}
