package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"fiestas-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadEventsFromJSON(t *testing.T) {
	path := createTempFile(t, `[
		{
			"id": "fp002",
			"name": "GRAN ENTRADA MORA",
			"date": "2025-08-24",
			"time": "20:00",
			"location": "C/ Cervantes",
			"organizer": "Clavaría Ntra. Sra. de los Ángeles",
			"category": "patronales",
			"type": "procesión",
			"description": null,
			"order": "1"
		}
	]`)

	events, err := ReadEventsFromJSON(path)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "fp002", ev.ID)
	assert.Equal(t, models.CategoryPatronales, ev.Category)
	assert.Nil(t, ev.Description)
	key, ok := ev.OrderKey()
	assert.True(t, ok)
	assert.Equal(t, "1", key)
}

func TestReadEventsFromJSON_Errors(t *testing.T) {
	_, err := ReadEventsFromJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ReadEventsFromJSON(createTempFile(t, `{"id": "not-an-array"}`))
	assert.Error(t, err)
}

func TestPlotEventsPerDay(t *testing.T) {
	var buf bytes.Buffer
	err := PlotEventsPerDay(&buf, "Fiestas de Mislata", []DayCount{
		{Label: "sáb 23/08", Patronales: 1},
		{Label: "dom 24/08", Patronales: 2, Populares: 1},
	})

	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Patronales")
	assert.Contains(t, html, "Populares")
}

func TestWriteICS_RoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	start := time.Date(2025, time.August, 30, 23, 0, 0, 0, loc)
	description := "Verbena popular"

	var buf bytes.Buffer
	err = WriteICS(&buf, []CalendarEntry{{
		Event: models.Event{
			ID:          "fpop001",
			Name:        "VERBENA",
			Location:    "Plaza Mayor",
			Organizer:   "Comisión",
			Category:    models.CategoryPopulares,
			Description: &description,
		},
		Start: start,
		End:   start.Add(2 * time.Hour),
	}}, CalendarOptions{Name: "Fiestas", Timezone: "Europe/Madrid", ReminderMinutes: 30})
	require.NoError(t, err)

	body := buf.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "BEGIN:VALARM")

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)

	assert.Equal(t, "fpop001@fiestas-mislata", events[0].Id())
	assert.Equal(t, "VERBENA", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	gotStart, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, gotStart.Equal(start))
}
