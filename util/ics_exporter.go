package util

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"fiestas-server/models"
)

const ICS_PRODUCT_ID = "-//Fiestas de Mislata//Programa//ES"
const ICS_UID_DOMAIN = "fiestas-mislata"

// CalendarEntry is an event with its resolved time window.
type CalendarEntry struct {
	Event models.Event
	Start time.Time
	End   time.Time
}

// CalendarOptions tunes the exported calendar.
type CalendarOptions struct {
	Name            string
	Timezone        string
	ReminderMinutes int
	Stamp           time.Time
}

// WriteICS serializes entries as an iCalendar document.
func WriteICS(w io.Writer, entries []CalendarEntry, options CalendarOptions) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ICS_PRODUCT_ID)
	if options.Name != "" {
		cal.SetXWRCalName(options.Name)
	}
	if options.Timezone != "" {
		cal.SetXWRTimezone(options.Timezone)
	}

	stamp := options.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	for _, entry := range entries {
		ev := entry.Event
		vevent := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, ICS_UID_DOMAIN))
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(entry.Start)
		vevent.SetEndAt(entry.End)
		vevent.SetSummary(ev.Name)
		vevent.SetLocation(ev.Location)
		vevent.SetDescription(describe(ev))
		vevent.AddProperty(ics.ComponentPropertyCategories, string(ev.Category))

		if options.ReminderMinutes > 0 {
			alarm := vevent.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", options.ReminderMinutes))
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

func describe(ev models.Event) string {
	text := fmt.Sprintf("Organiza: %s", ev.Organizer)
	if ev.Description != nil && *ev.Description != "" {
		text = *ev.Description + "\n" + text
	}
	return text
}
