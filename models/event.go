package models

import (
	"fmt"
	"strings"
)

// Category is the closed set of festival programs an event belongs to.
type Category string

const (
	CategoryPatronales Category = "patronales"
	CategoryPopulares  Category = "populares"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryPatronales, CategoryPopulares}

// Status is derived from the clock and never stored as truth.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

var Statuses = []Status{StatusUpcoming, StatusOngoing, StatusFinished}

// ParseCategory returns the category named by s, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseStatus returns the status named by s, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Event is one entry of the festival program. Date and Time are the calendar
// values printed in the program, not the festival day the event belongs to.
type Event struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Organizer   string   `json:"organizer"`
	Category    Category `json:"category"`
	Type        string   `json:"type"`
	Status      Status   `json:"status,omitempty"`
	Description *string  `json:"description"`
	Order       *string  `json:"order"`
}

// OrderKey returns the explicit ordering key, if the event carries one.
func (e Event) OrderKey() (string, bool) {
	if e.Order == nil || *e.Order == "" {
		return "", false
	}
	return *e.Order, true
}

func (e Event) ToString() string {
	return fmt.Sprintf("Event{id=%s name=%q date=%s time=%s category=%s status=%s}",
		e.ID, e.Name, e.Date, e.Time, e.Category, e.Status)
}
