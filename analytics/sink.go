// Package analytics emits usage events to a pluggable sink, gated by the
// client's cookie consent.
package analytics

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"fiestas-server/models"
)

// Event names shared with the web client.
const (
	EVENT_PAGE_VIEW               = "page_view"
	EVENT_SEARCH                  = "search"
	EVENT_SEARCH_CLEAR            = "search_clear"
	EVENT_FAVORITE                = "favorite_event"
	EVENT_FAVORITES_MODAL_OPEN    = "favorites_modal_open"
	EVENT_CALENDAR_OPEN           = "calendar_open"
	EVENT_CALENDAR_DATE_CLICK     = "calendar_date_click"
	EVENT_SCROLL_TO_TOP           = "scroll_to_top"
	EVENT_SCROLL_TO_DATE          = "scroll_to_date"
	EVENT_VIEW                    = "event_view"
	EVENT_TODAY_EVENTS_VIEW       = "today_events_view"
	EVENT_CATEGORY_INTERACTION    = "event_category_interaction"
	EVENT_TYPE_INTERACTION        = "event_type_interaction"
	EVENT_SESSION_METRICS         = "session_metrics"
	EVENT_ONGOING_EVENTS_INTEREST = "ongoing_events_interest"
	EVENT_PHOTO_UPLOAD            = "photo_upload"
)

var knownEvents = map[string]struct{}{
	EVENT_PAGE_VIEW: {}, EVENT_SEARCH: {}, EVENT_SEARCH_CLEAR: {}, EVENT_FAVORITE: {},
	EVENT_FAVORITES_MODAL_OPEN: {}, EVENT_CALENDAR_OPEN: {}, EVENT_CALENDAR_DATE_CLICK: {},
	EVENT_SCROLL_TO_TOP: {}, EVENT_SCROLL_TO_DATE: {}, EVENT_VIEW: {}, EVENT_TODAY_EVENTS_VIEW: {},
	EVENT_CATEGORY_INTERACTION: {}, EVENT_TYPE_INTERACTION: {}, EVENT_SESSION_METRICS: {},
	EVENT_ONGOING_EVENTS_INTEREST: {}, EVENT_PHOTO_UPLOAD: {},
}

// EVENT_STATUS_CHANGE is emitted by the server itself, never by clients,
// so it is not part of the shared taxonomy.
const EVENT_STATUS_CHANGE = "event_status_change"

// StatusChangeEvent converts a ticker transition into an analytics hit.
func StatusChangeEvent(c models.StatusChange) Event {
	return Event{
		Name: EVENT_STATUS_CHANGE,
		Params: map[string]interface{}{
			"event_id":   c.EventID,
			"event_name": c.Name,
			"from":       string(c.From),
			"to":         string(c.To),
		},
		At: c.At,
	}
}

// IsKnownEvent reports whether name belongs to the shared event taxonomy.
func IsKnownEvent(name string) bool {
	_, ok := knownEvents[name]
	return ok
}

// Event is one analytics hit.
type Event struct {
	Name     string                 `json:"name"`
	ClientID string                 `json:"client_id,omitempty"`
	Params   map[string]interface{} `json:"params,omitempty"`
	At       time.Time              `json:"at"`
}

// Sink delivers events somewhere. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, ev Event) error
}

// LogSink writes each event as a JSON log line.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Emit(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	log.Printf("[Analytics] %s", data)
	return nil
}

// NopSink drops everything.
type NopSink struct{}

func (NopSink) Emit(context.Context, Event) error {
	return nil
}

// MemorySink records events; used by tests and the local dev setup.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Emit(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}
