package services

import (
	"context"
	"log"
	"time"

	eventsource "fiestas-server/api/events"
	"fiestas-server/dao/redis"
	"fiestas-server/festival"
	"fiestas-server/models"
)

// CatalogRefresherService periodically reloads the program from its source.
type CatalogRefresherService struct {
	source   eventsource.EventSource
	eventDao *redis.RedisEventDAO
	clock    *festival.Clock
}

func NewCatalogRefresherService(
	source eventsource.EventSource,
	eventDao *redis.RedisEventDAO,
	clock *festival.Clock,
) *CatalogRefresherService {
	return &CatalogRefresherService{
		source:   source,
		eventDao: eventDao,
		clock:    clock,
	}
}

// StartPeriodicJob launches the background loop at the given interval until ctx is done.
func (cr *CatalogRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go cr.startPeriodicJob(ctx, interval)
}

func (cr *CatalogRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[CatalogRefresherService] Stopping periodic catalog refresher job.")
			return
		case <-ticker.C:
			log.Println("[CatalogRefresherService] Running periodic catalog refresher job.")
			if err := cr.RefreshCatalog(ctx); err != nil {
				log.Printf("[CatalogRefresherService] RefreshCatalog returned error: %v", err)
			} else {
				log.Println("[CatalogRefresherService] RefreshCatalog completed successfully.")
			}
		}
	}
}

// RefreshCatalog loads the source, drops duplicate IDs and replaces the stored catalog.
// A failed load keeps the previous catalog.
func (cr *CatalogRefresherService) RefreshCatalog(ctx context.Context) error {
	loaded, err := cr.source.LoadEvents(ctx)
	if err != nil {
		log.Printf("[CatalogRefresherService] Failed to load events, keeping previous catalog: %v", err)
		return err
	}

	unique := cr.dedupe(loaded)
	if err := cr.eventDao.ReplaceCatalog(unique); err != nil {
		return err
	}
	log.Printf("[CatalogRefresherService] Stored %d events (%d loaded)", len(unique), len(loaded))
	return nil
}

func (cr *CatalogRefresherService) dedupe(loaded []models.Event) []models.Event {
	seenIDs := make(map[string]struct{}, len(loaded))
	unique := make([]models.Event, 0, len(loaded))
	for _, ev := range loaded {
		if ev.ID == "" {
			log.Printf("[CatalogRefresherService] Skipping event without id: %q", ev.Name)
			continue
		}
		if _, dup := seenIDs[ev.ID]; dup {
			log.Printf("[CatalogRefresherService] Skipping duplicate event ID=%s", ev.ID)
			continue
		}
		if _, err := cr.clock.FestivalDateOf(ev.Date, ev.Time); err != nil {
			// kept: the resolver reports it as upcoming
			log.Printf("[CatalogRefresherService] Event %s has a malformed date or time: %v", ev.ID, err)
		}
		seenIDs[ev.ID] = struct{}{}
		unique = append(unique, ev)
	}
	return unique
}
