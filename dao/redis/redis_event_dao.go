package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fiestas-server/db"
	"fiestas-server/models"
)

const FESTIVAL_EVENT_KEY_FORMAT = "festival_event_v1:%s"
const FESTIVAL_EVENTS_INDEX_KEY = "festival_events_index_v1"

// STATUS_OVERRIDE_KEY_FORMAT holds manual status overrides, always written with a TTL.
const STATUS_OVERRIDE_KEY_FORMAT = "festival_status_override_v1:%s"

// ErrCatalogNotLoaded is returned while no catalog has ever been stored.
var ErrCatalogNotLoaded = errors.New("event catalog not loaded")

// RedisEventDAO caches the event catalog. The index key keeps catalog order
// and is written only by a successful ReplaceCatalog.
type RedisEventDAO struct {
	client db.RedisClient
}

func NewRedisEventDAO(client db.RedisClient) *RedisEventDAO {
	return &RedisEventDAO{client: client}
}

// ReplaceCatalog stores events in the given order and removes events no longer present.
func (dao *RedisEventDAO) ReplaceCatalog(events []models.Event) error {
	previous, _, err := dao.listIDs()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(events))
	keep := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if err := dao.putEvent(ev); err != nil {
			return err
		}
		ids = append(ids, ev.ID)
		keep[ev.ID] = struct{}{}
	}
	if err := dao.saveIDs(ids); err != nil {
		return err
	}

	for _, id := range previous {
		if _, ok := keep[id]; ok {
			continue
		}
		if err := dao.client.Del(fmt.Sprintf(FESTIVAL_EVENT_KEY_FORMAT, id)); err != nil {
			log.Printf("[RedisEventDAO] Failed to delete stale event %s: %v", id, err)
		} else {
			log.Printf("[RedisEventDAO] Deleted stale event %s", id)
		}
	}
	return nil
}

// GetEvent returns nil, nil when the event is not cached.
func (dao *RedisEventDAO) GetEvent(id string) (*models.Event, error) {
	str, err := dao.client.Get(fmt.Sprintf(FESTIVAL_EVENT_KEY_FORMAT, id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s from redis: %w", id, err)
	}
	var ev models.Event
	if err := json.Unmarshal([]byte(str), &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event JSON: %w", err)
	}
	return &ev, nil
}

// ListEvents returns the catalog in the order it was stored, or
// ErrCatalogNotLoaded when nothing was ever stored.
func (dao *RedisEventDAO) ListEvents() ([]models.Event, error) {
	ids, found, err := dao.listIDs()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCatalogNotLoaded
	}
	events := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		ev, err := dao.GetEvent(id)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			log.Printf("[RedisEventDAO] Index references missing event %s, skipping", id)
			continue
		}
		events = append(events, *ev)
	}
	return events, nil
}

func (dao *RedisEventDAO) SetStatusOverride(id string, status models.Status, ttl time.Duration) error {
	key := fmt.Sprintf(STATUS_OVERRIDE_KEY_FORMAT, id)
	if err := dao.client.SetWithTTL(key, string(status), ttl); err != nil {
		return fmt.Errorf("failed to set status override in redis: %w", err)
	}
	return nil
}

// ListStatusOverrides returns the overrides that have not expired yet, by event ID.
func (dao *RedisEventDAO) ListStatusOverrides() (map[string]models.Status, error) {
	prefix := fmt.Sprintf(STATUS_OVERRIDE_KEY_FORMAT, "")
	keys, err := dao.client.Keys(prefix + "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list status override keys: %w", err)
	}
	overrides := make(map[string]models.Status, len(keys))
	for _, k := range keys {
		val, err := dao.client.Get(k)
		if errors.Is(err, db.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get status override %s: %w", k, err)
		}
		overrides[strings.TrimPrefix(k, prefix)] = models.Status(val)
	}
	return overrides, nil
}

func (dao *RedisEventDAO) putEvent(ev models.Event) error {
	ev.Status = ""
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", ev.ID, err)
	}
	if err := dao.client.Set(fmt.Sprintf(FESTIVAL_EVENT_KEY_FORMAT, ev.ID), string(data)); err != nil {
		return fmt.Errorf("failed to set event in redis: %w", err)
	}
	return nil
}

func (dao *RedisEventDAO) listIDs() ([]string, bool, error) {
	str, err := dao.client.Get(FESTIVAL_EVENTS_INDEX_KEY)
	if errors.Is(err, db.ErrKeyNotFound) {
		return []string{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get events index from redis: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(str), &ids); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal events index: %w", err)
	}
	return ids, true, nil
}

func (dao *RedisEventDAO) saveIDs(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal events index: %w", err)
	}
	if err := dao.client.Set(FESTIVAL_EVENTS_INDEX_KEY, string(data)); err != nil {
		return fmt.Errorf("failed to set events index in redis: %w", err)
	}
	return nil
}
