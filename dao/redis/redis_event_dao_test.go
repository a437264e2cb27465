package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fiestas-server/db"
	"fiestas-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(id, date, tod string) models.Event {
	return models.Event{
		ID:        id,
		Name:      "Evento " + id,
		Date:      date,
		Time:      tod,
		Location:  "Pza. Mayor",
		Organizer: "Ajuntament de Mislata",
		Category:  models.CategoryPopulares,
		Type:      "cultural",
	}
}

func TestRedisEventDAO_ReplaceCatalog_DropsDerivedStatus(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisEventDAO(mockClient)

	ev := testEvent("fp001", "2025-08-30", "20:00")
	ev.Status = models.StatusOngoing
	require.NoError(t, dao.ReplaceCatalog([]models.Event{ev}))

	stored, err := mockClient.Get("festival_event_v1:fp001")
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stored), &raw))
	assert.NotContains(t, raw, "status")

	got, err := dao.GetEvent("fp001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Evento fp001", got.Name)
	assert.Empty(t, got.Status)
}

func TestRedisEventDAO_ListEvents_NeverLoaded(t *testing.T) {
	dao := NewRedisEventDAO(db.NewMockRedisClient(context.Background()))

	events, err := dao.ListEvents()
	assert.ErrorIs(t, err, ErrCatalogNotLoaded)
	assert.Nil(t, events)
}

func TestRedisEventDAO_ListEvents_LoadedEmpty(t *testing.T) {
	dao := NewRedisEventDAO(db.NewMockRedisClient(context.Background()))
	require.NoError(t, dao.ReplaceCatalog(nil))

	events, err := dao.ListEvents()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRedisEventDAO_GetEvent_Missing(t *testing.T) {
	dao := NewRedisEventDAO(db.NewMockRedisClient(context.Background()))

	got, err := dao.GetEvent("nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisEventDAO_ReplaceCatalog_KeepsOrderAndDropsStale(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisEventDAO(mockClient)

	require.NoError(t, dao.ReplaceCatalog([]models.Event{
		testEvent("c", "2025-08-30", "20:00"),
		testEvent("a", "2025-08-30", "21:00"),
		testEvent("old", "2025-08-29", "21:00"),
	}))
	require.NoError(t, dao.ReplaceCatalog([]models.Event{
		testEvent("c", "2025-08-30", "20:00"),
		testEvent("a", "2025-08-30", "21:00"),
		testEvent("b", "2025-08-31", "19:00"),
	}))

	events, err := dao.ListEvents()
	require.NoError(t, err)
	ids := []string{}
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	_, err = mockClient.Get("festival_event_v1:old")
	assert.Error(t, err)
}

func TestRedisEventDAO_StatusOverridesExpire(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	now := time.Date(2025, time.August, 30, 20, 0, 0, 0, time.UTC)
	mockClient.SetNowFunc(func() time.Time { return now })
	dao := NewRedisEventDAO(mockClient)

	require.NoError(t, dao.SetStatusOverride("fp001", models.StatusFinished, time.Hour))

	overrides, err := dao.ListStatusOverrides()
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Status{"fp001": models.StatusFinished}, overrides)

	now = now.Add(2 * time.Hour)
	overrides, err = dao.ListStatusOverrides()
	require.NoError(t, err)
	assert.Empty(t, overrides)
}
