package services

import (
	"context"
	"log"
	"sync"
	"time"

	"fiestas-server/dao/redis"
	"fiestas-server/festival"
	"fiestas-server/models"

	"github.com/robfig/cron/v3"
)

// StatusTickerService recomputes every event's status on a cron schedule and
// publishes the transitions. The first tick only records a baseline.
type StatusTickerService struct {
	eventDao *redis.RedisEventDAO
	resolver *festival.Resolver
	cron     *cron.Cron
	now      func() time.Time

	mu          sync.Mutex
	last        map[string]models.Status
	subscribers []func(models.StatusChange)
}

func NewStatusTickerService(eventDao *redis.RedisEventDAO, resolver *festival.Resolver) *StatusTickerService {
	return &StatusTickerService{
		eventDao: eventDao,
		resolver: resolver,
		cron:     cron.New(cron.WithLocation(resolver.Clock().Location())),
		now:      time.Now,
	}
}

func (st *StatusTickerService) SetNowFunc(now func() time.Time) {
	st.now = now
}

// Subscribe registers fn for every future status change.
func (st *StatusTickerService) Subscribe(fn func(models.StatusChange)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subscribers = append(st.subscribers, fn)
}

// Start schedules Tick with a cron spec such as "@every 1m".
func (st *StatusTickerService) Start(schedule string) error {
	if _, err := st.cron.AddFunc(schedule, func() {
		if _, err := st.Tick(); err != nil {
			log.Printf("[StatusTickerService] Tick failed: %v", err)
		}
	}); err != nil {
		return err
	}
	st.cron.Start()
	log.Printf("[StatusTickerService] Started with schedule %q", schedule)
	return nil
}

// Stop waits for a running tick to finish or ctx to expire.
func (st *StatusTickerService) Stop(ctx context.Context) {
	select {
	case <-st.cron.Stop().Done():
	case <-ctx.Done():
	}
	log.Println("[StatusTickerService] Stopped")
}

// Tick resolves the catalog against now and returns the transitions since the previous tick.
func (st *StatusTickerService) Tick() ([]models.StatusChange, error) {
	events, err := st.eventDao.ListEvents()
	if err != nil {
		return nil, err
	}
	now := st.now()
	resolved := st.resolver.ResolveAll(events, now)

	st.mu.Lock()
	baseline := st.last == nil
	current := make(map[string]models.Status, len(resolved))
	var changes []models.StatusChange
	for _, ev := range resolved {
		current[ev.ID] = ev.Status
		if baseline {
			continue
		}
		if prev, ok := st.last[ev.ID]; ok && prev != ev.Status {
			changes = append(changes, models.StatusChange{
				EventID: ev.ID,
				Name:    ev.Name,
				From:    prev,
				To:      ev.Status,
				At:      now,
			})
		}
	}
	st.last = current
	subscribers := append([]func(models.StatusChange){}, st.subscribers...)
	st.mu.Unlock()

	for _, change := range changes {
		for _, fn := range subscribers {
			fn(change)
		}
	}
	return changes, nil
}
