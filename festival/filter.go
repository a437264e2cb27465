package festival

import (
	"strings"

	"fiestas-server/models"
)

// Predicate decides whether an event stays in a view.
type Predicate func(models.Event) bool

// Filter is one user-facing criterion. The set of variants is closed: only
// the types in this file implement it.
type Filter interface {
	match(ev models.Event, clock *Clock) bool
}

// SearchFilter matches a free-text query against name, location, organizer
// and type, ignoring case and accents. An empty query matches everything.
type SearchFilter struct {
	Query string
}

func (f SearchFilter) match(ev models.Event, _ *Clock) bool {
	return Matches(f.Query, ev.Name, ev.Location, ev.Organizer, ev.Type)
}

// CategoryFilter matches events of any of the given categories.
type CategoryFilter struct {
	Categories []models.Category
}

func (f CategoryFilter) match(ev models.Event, _ *Clock) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if ev.Category == c {
			return true
		}
	}
	return false
}

// StatusFilter matches on the resolved status.
type StatusFilter struct {
	Statuses []models.Status
}

func (f StatusFilter) match(ev models.Event, _ *Clock) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if ev.Status == s {
			return true
		}
	}
	return false
}

// TypeFilter matches the free-form event type, ignoring case and accents.
type TypeFilter struct {
	Types []string
}

// MusicalTypes groups the program's music entries.
var MusicalTypes = TypeFilter{Types: []string{"música", "concierto"}}

func (f TypeFilter) match(ev models.Event, _ *Clock) bool {
	if len(f.Types) == 0 {
		return true
	}
	folded := Fold(ev.Type)
	for _, t := range f.Types {
		if Fold(strings.TrimSpace(t)) == folded {
			return true
		}
	}
	return false
}

// DateRangeFilter keeps events whose festival day lies in [From, To].
// Either bound may be empty.
type DateRangeFilter struct {
	From string
	To   string
}

func (f DateRangeFilter) match(ev models.Event, clock *Clock) bool {
	if f.From == "" && f.To == "" {
		return true
	}
	date, err := clock.FestivalDateOf(ev.Date, ev.Time)
	if err != nil {
		return false
	}
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}
	return true
}

// Compose ANDs the filters into one predicate.
func Compose(clock *Clock, filters ...Filter) Predicate {
	return func(ev models.Event) bool {
		for _, f := range filters {
			if !f.match(ev, clock) {
				return false
			}
		}
		return true
	}
}
