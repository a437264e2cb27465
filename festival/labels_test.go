package festival

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabeler_FallsBackOnBadDates(t *testing.T) {
	labeler := NewLabeler()
	assert.Equal(t, "not-a-date", labeler.Long("not-a-date"))
	assert.Equal(t, "not-a-date", labeler.Tab("not-a-date"))
}

func TestLabeler_LabelsEveryDate(t *testing.T) {
	labeler := NewLabeler()
	labels := labeler.Labels([]string{"2025-08-30", "2025-08-31"})

	assert.Len(t, labels, 2)
	assert.Contains(t, labels["2025-08-30"], "30")
	assert.Contains(t, labels["2025-08-31"], "31")
}
