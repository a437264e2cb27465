package festival

import (
	"testing"

	"fiestas-server/models"

	"github.com/stretchr/testify/assert"
)

func TestMatches_IgnoresCaseAndAccents(t *testing.T) {
	assert.True(t, Matches("paella", "CONCURSO DE PAELLAS"))
	assert.True(t, Matches("musica", "Música en directo"))
	assert.True(t, Matches("CONSTITUCIÓN", "Pza. de la Constitucion"))
	assert.True(t, Matches("   ", "anything"))
	assert.False(t, Matches("xyz123", "CONCURSO DE PAELLAS"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "musica", Fold("MÚSICA"))
	assert.Equal(t, "pasacalle", Fold("Pasacalle"))
}

func TestCompose_AndAcrossOrWithin(t *testing.T) {
	clock := newTestClock()
	concierto := event("concierto", "2025-08-30", "23:00")
	concierto.Type = "Concierto"
	concierto.Category = models.CategoryPopulares
	misa := event("misa", "2025-08-30", "12:00")
	misa.Type = "religioso"
	misa.Category = models.CategoryPatronales
	misa.Location = "Iglesia"

	tests := []struct {
		name    string
		filters []Filter
		want    []bool
	}{
		{"no filters", nil, []bool{true, true}},
		{"empty variants", []Filter{CategoryFilter{}, StatusFilter{}, TypeFilter{}, DateRangeFilter{}}, []bool{true, true}},
		{"one category", []Filter{CategoryFilter{Categories: []models.Category{models.CategoryPatronales}}}, []bool{false, true}},
		{"either category", []Filter{CategoryFilter{Categories: models.Categories}}, []bool{true, true}},
		{"musical shortcut", []Filter{MusicalTypes}, []bool{true, false}},
		{"search and category", []Filter{SearchFilter{Query: "iglesia"}, CategoryFilter{Categories: []models.Category{models.CategoryPopulares}}}, []bool{false, false}},
		{"status", []Filter{StatusFilter{Statuses: []models.Status{models.StatusOngoing}}}, []bool{true, false}},
	}

	concierto.Status = models.StatusOngoing
	misa.Status = models.StatusFinished

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			keep := Compose(clock, test.filters...)
			assert.Equal(t, test.want, []bool{keep(concierto), keep(misa)})
		})
	}
}

func TestDateRangeFilter_UsesFestivalDate(t *testing.T) {
	clock := newTestClock()
	late := event("late", "2025-08-31", "01:00")

	assert.True(t, Compose(clock, DateRangeFilter{From: "2025-08-30", To: "2025-08-30"})(late))
	assert.False(t, Compose(clock, DateRangeFilter{From: "2025-08-31"})(late))
	assert.True(t, Compose(clock, DateRangeFilter{To: "2025-08-30"})(late))
	assert.False(t, Compose(clock, DateRangeFilter{From: "2025-08-01"})(event("bad", "", "10:00")))
}
