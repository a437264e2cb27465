package festival

import (
	"log"
	"time"

	"github.com/klauspost/lctime"
)

const LABEL_LOCALE = "es_ES"

// Labeler renders festival dates in Spanish for tabs, charts and calendars.
// The locale is process-wide in lctime, so it is set once at construction.
type Labeler struct {
	localized bool
}

func NewLabeler() *Labeler {
	if err := lctime.SetLocale(LABEL_LOCALE); err != nil {
		log.Printf("[Labeler] Locale %s unavailable, falling back to ISO dates: %v", LABEL_LOCALE, err)
		return &Labeler{}
	}
	return &Labeler{localized: true}
}

func (l *Labeler) format(layout, date string) string {
	d, err := ParseDate(date)
	if err != nil || !l.localized {
		return date
	}
	return lctime.Strftime(layout, d)
}

// Tab renders a short label such as "sáb 30/08".
func (l *Labeler) Tab(date string) string {
	return l.format("%a %d/%m", date)
}

// Long renders a label such as "sábado, 30 de agosto".
func (l *Labeler) Long(date string) string {
	return l.format("%A, %d de %B", date)
}

// Labels maps every date to its long label.
func (l *Labeler) Labels(dates []string) map[string]string {
	out := make(map[string]string, len(dates))
	for _, d := range dates {
		out[d] = l.Long(d)
	}
	return out
}

// Today is a convenience for rendering the festival date of now.
func (l *Labeler) Today(clock *Clock, now time.Time) string {
	return l.Long(clock.CurrentFestivalDate(now))
}
