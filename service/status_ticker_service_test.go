package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"fiestas-server/dao/redis"
	"fiestas-server/db"
	"fiestas-server/festival"
	"fiestas-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTickerFixture(t *testing.T, now *time.Time) *StatusTickerService {
	t.Helper()
	dao := redis.NewRedisEventDAO(db.NewMockRedisClient(context.Background()))
	require.NoError(t, dao.ReplaceCatalog(sampleProgram()))
	ticker := NewStatusTickerService(dao, festival.NewResolver(festival.NewClock(5, madrid), 2*time.Hour))
	ticker.SetNowFunc(func() time.Time { return *now })
	return ticker
}

func TestStatusTicker_FirstTickIsBaseline(t *testing.T) {
	now := at("2025-08-30", "18:30")
	ticker := newTickerFixture(t, &now)

	changes, err := ticker.Tick()
	require.NoError(t, err)
	assert.Empty(t, changes)

	changes, err = ticker.Tick()
	require.NoError(t, err)
	assert.Empty(t, changes, "nothing moved since the baseline")
}

func TestStatusTicker_ReportsTransitions(t *testing.T) {
	now := at("2025-08-30", "18:30")
	ticker := newTickerFixture(t, &now)

	var mu sync.Mutex
	var published []models.StatusChange
	ticker.Subscribe(func(c models.StatusChange) {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, c)
	})

	_, err := ticker.Tick()
	require.NoError(t, err)

	now = at("2025-08-30", "23:05")
	changes, err := ticker.Tick()
	require.NoError(t, err)
	require.Len(t, changes, 2)

	byID := map[string]models.StatusChange{}
	for _, c := range changes {
		byID[c.EventID] = c
	}
	assert.Equal(t, models.StatusOngoing, byID["tarde"].From)
	assert.Equal(t, models.StatusFinished, byID["tarde"].To)
	assert.Equal(t, models.StatusUpcoming, byID["verbena"].From)
	assert.Equal(t, models.StatusOngoing, byID["verbena"].To)
	assert.Equal(t, now, byID["verbena"].At)

	mu.Lock()
	assert.Len(t, published, 2)
	mu.Unlock()

	changes, err = ticker.Tick()
	require.NoError(t, err)
	assert.Empty(t, changes, "no time passed, nothing changed")
}

func TestStatusTicker_StartRejectsBadSchedule(t *testing.T) {
	now := at("2025-08-30", "18:30")
	ticker := newTickerFixture(t, &now)

	assert.Error(t, ticker.Start("every now and then"))

	require.NoError(t, ticker.Start("@every 1h"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ticker.Stop(ctx)
}
