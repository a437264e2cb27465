package festival

import (
	"testing"
	"time"

	"fiestas-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_DefaultWindowWithoutSiblings(t *testing.T) {
	resolver := newTestResolver()
	ev := event("a", "2025-08-30", "23:00")

	assert.Equal(t, models.StatusOngoing, resolver.Resolve(ev, at("2025-08-31", "00:30"), nil))
	assert.Equal(t, models.StatusUpcoming, resolver.Resolve(ev, at("2025-08-30", "22:59"), nil))
	assert.Equal(t, models.StatusFinished, resolver.Resolve(ev, at("2025-08-31", "01:00"), nil))
}

func TestResolve_NextSiblingEndsEvent(t *testing.T) {
	resolver := newTestResolver()
	ev := event("a", "2025-08-30", "23:00")
	siblings := []models.Event{ev, event("b", "2025-08-30", "23:30")}

	assert.Equal(t, models.StatusOngoing, resolver.Resolve(ev, at("2025-08-30", "23:20"), siblings))
	assert.Equal(t, models.StatusFinished, resolver.Resolve(ev, at("2025-08-30", "23:45"), siblings))
}

func TestResolve_BoundariesAreHalfOpen(t *testing.T) {
	resolver := newTestResolver()
	ev := event("a", "2025-08-30", "20:00")
	siblings := []models.Event{ev, event("b", "2025-08-30", "21:00")}

	assert.Equal(t, models.StatusOngoing, resolver.Resolve(ev, at("2025-08-30", "20:00"), siblings))
	assert.Equal(t, models.StatusFinished, resolver.Resolve(ev, at("2025-08-30", "21:00"), siblings))
	assert.Equal(t, models.StatusFinished, resolver.Resolve(ev, at("2025-08-30", "22:00"), nil))
}

func TestResolve_PostMidnightSiblingBelongsToPreviousNight(t *testing.T) {
	resolver := newTestResolver()
	verbena := event("verbena", "2025-08-30", "23:00")
	disco := event("disco", "2025-08-31", "00:30")
	siblings := []models.Event{disco, verbena}

	// The 00:30 entry is part of the night of the 30th, so it closes the verbena.
	assert.Equal(t, models.StatusFinished, resolver.Resolve(verbena, at("2025-08-31", "00:40"), siblings))
	assert.Equal(t, models.StatusOngoing, resolver.Resolve(disco, at("2025-08-31", "00:40"), siblings))
}

func TestResolve_IgnoresSiblingsFromOtherFestivalDays(t *testing.T) {
	resolver := newTestResolver()
	ev := event("a", "2025-08-30", "18:00")
	siblings := []models.Event{ev, event("tomorrow", "2025-08-31", "18:30")}

	start, end, err := resolver.Window(ev, siblings)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, end.Sub(start))
}

func TestResolve_TiedStartsDoNotEndEachOther(t *testing.T) {
	resolver := newTestResolver()
	a := event("a", "2025-08-30", "19:00")
	b := event("b", "2025-08-30", "19:00")

	_, end, err := resolver.Window(a, []models.Event{a, b})
	require.NoError(t, err)
	assert.True(t, end.Equal(at("2025-08-30", "21:00")))
}

func TestResolve_MalformedEventIsUpcoming(t *testing.T) {
	resolver := newTestResolver()
	ev := event("bad", "30/08/2025", "23:00")

	assert.Equal(t, models.StatusUpcoming, resolver.Resolve(ev, at("2025-09-10", "12:00"), nil))
}

func TestResolve_MalformedSiblingIsIgnored(t *testing.T) {
	resolver := newTestResolver()
	ev := event("a", "2025-08-30", "20:00")
	siblings := []models.Event{ev, event("bad", "2025-08-30", "xx:yy")}

	assert.Equal(t, models.StatusOngoing, resolver.Resolve(ev, at("2025-08-30", "21:30"), siblings))
}

func TestResolve_IsTotalAndIdempotent(t *testing.T) {
	resolver := newTestResolver()
	ev := event("a", "2025-08-30", "22:00")
	siblings := []models.Event{ev, event("b", "2025-08-30", "23:00")}

	now := at("2025-08-30", "12:00")
	for i := 0; i < 24*4; i++ {
		first := resolver.Resolve(ev, now, siblings)
		second := resolver.Resolve(ev, now, siblings)
		assert.Equal(t, first, second)
		assert.Contains(t, models.Statuses, first)
		now = now.Add(15 * time.Minute)
	}
}

func TestResolveAll_FillsStatusWithoutMutatingInput(t *testing.T) {
	resolver := newTestResolver()
	events := []models.Event{
		event("a", "2025-08-30", "20:00"),
		event("b", "2025-08-30", "21:00"),
		event("c", "2025-08-31", "20:00"),
	}

	resolved := resolver.ResolveAll(events, at("2025-08-30", "21:15"))

	require.Len(t, resolved, 3)
	assert.Equal(t, models.StatusFinished, resolved[0].Status)
	assert.Equal(t, models.StatusOngoing, resolved[1].Status)
	assert.Equal(t, models.StatusUpcoming, resolved[2].Status)
	for _, ev := range events {
		assert.Empty(t, ev.Status)
	}
}
