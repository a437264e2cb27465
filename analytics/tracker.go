package analytics

import (
	"context"
	"log"
	"time"

	"fiestas-server/models"
)

const EMIT_TIMEOUT = 5 * time.Second

// Tracker forwards events to a sink when, and only when, the client's
// consent allows analytics. Sink failures are logged and dropped.
type Tracker struct {
	sink  Sink
	async bool
	now   func() time.Time
}

// NewTracker builds a tracker. With async set, events are emitted in the
// background and Track returns immediately.
func NewTracker(sink Sink, async bool) *Tracker {
	return &Tracker{sink: sink, async: async, now: time.Now}
}

// Track reports whether the event was handed to the sink.
func (t *Tracker) Track(ctx context.Context, consent models.Consent, ev Event) bool {
	if !consent.Analytics {
		return false
	}
	if ev.At.IsZero() {
		ev.At = t.now()
	}
	if !t.async {
		t.emit(ctx, ev)
		return true
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), EMIT_TIMEOUT)
		defer cancel()
		t.emit(ctx, ev)
	}()
	return true
}

func (t *Tracker) emit(ctx context.Context, ev Event) {
	if err := t.sink.Emit(ctx, ev); err != nil {
		log.Printf("[Tracker] Dropping %s event: %v", ev.Name, err)
	}
}

func (t *Tracker) TrackSearch(ctx context.Context, consent models.Consent, clientID, term string, results int) bool {
	return t.Track(ctx, consent, Event{
		Name:     EVENT_SEARCH,
		ClientID: clientID,
		Params:   map[string]interface{}{"search_term": term, "results_count": results},
	})
}

func (t *Tracker) TrackFavorite(ctx context.Context, consent models.Consent, clientID string, ev models.Event, added bool, total int) bool {
	action := "remove"
	if added {
		action = "add"
	}
	return t.Track(ctx, consent, Event{
		Name:     EVENT_FAVORITE,
		ClientID: clientID,
		Params: map[string]interface{}{
			"event_id":        ev.ID,
			"event_name":      ev.Name,
			"event_category":  string(ev.Category),
			"action":          action,
			"total_favorites": total,
		},
	})
}

func (t *Tracker) TrackCalendarOpen(ctx context.Context, consent models.Consent, clientID string, eventCount int) bool {
	return t.Track(ctx, consent, Event{
		Name:     EVENT_CALENDAR_OPEN,
		ClientID: clientID,
		Params:   map[string]interface{}{"event_count": eventCount},
	})
}

func (t *Tracker) TrackOngoingInterest(ctx context.Context, consent models.Consent, clientID string, ongoing int) bool {
	return t.Track(ctx, consent, Event{
		Name:     EVENT_ONGOING_EVENTS_INTEREST,
		ClientID: clientID,
		Params:   map[string]interface{}{"ongoing_count": ongoing},
	})
}

func (t *Tracker) TrackPageView(ctx context.Context, consent models.Consent, clientID, path string) bool {
	return t.Track(ctx, consent, Event{
		Name:     EVENT_PAGE_VIEW,
		ClientID: clientID,
		Params:   map[string]interface{}{"page_path": path},
	})
}
