package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"fiestas-server/db"
	"fiestas-server/models"
)

const EVENT_PHOTO_KEY_FORMAT = "event_photo_v1:%s"

// RedisPhotoDAO keeps photo metadata rows in Redis, one key per photo.
type RedisPhotoDAO struct {
	client db.RedisClient
	now    func() time.Time
}

func NewRedisPhotoDAO(client db.RedisClient) *RedisPhotoDAO {
	return &RedisPhotoDAO{client: client, now: time.Now}
}

func (dao *RedisPhotoDAO) InsertPhoto(_ context.Context, p *models.Photo) error {
	if p.ID == "" {
		return errors.New("photo id is required")
	}
	return dao.put(p)
}

// GetPhoto returns nil, nil when the photo does not exist.
func (dao *RedisPhotoDAO) GetPhoto(_ context.Context, id string) (*models.Photo, error) {
	str, err := dao.client.Get(fmt.Sprintf(EVENT_PHOTO_KEY_FORMAT, id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo %s from redis: %w", id, err)
	}
	var p models.Photo
	if err := json.Unmarshal([]byte(str), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal photo JSON: %w", err)
	}
	return &p, nil
}

func (dao *RedisPhotoDAO) ListPhotosByEvent(ctx context.Context, eventID string) ([]models.Photo, error) {
	keys, err := dao.client.Keys(fmt.Sprintf(EVENT_PHOTO_KEY_FORMAT, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list photo keys: %w", err)
	}
	photos := []models.Photo{}
	for _, k := range keys {
		str, err := dao.client.Get(k)
		if err != nil {
			log.Printf("[RedisPhotoDAO] Skipping photo key %s: %v", k, err)
			continue
		}
		var p models.Photo
		if err := json.Unmarshal([]byte(str), &p); err != nil {
			log.Printf("[RedisPhotoDAO] Skipping unreadable photo %s: %v", k, err)
			continue
		}
		if p.EventID == eventID {
			photos = append(photos, p)
		}
	}
	return photos, nil
}

func (dao *RedisPhotoDAO) MarkReported(ctx context.Context, id string) error {
	p, err := dao.GetPhoto(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("photo %s not found", id)
	}
	p.IsReported = true
	p.UpdatedAt = dao.now()
	return dao.put(p)
}

func (dao *RedisPhotoDAO) DeletePhoto(_ context.Context, id string) error {
	key := fmt.Sprintf(EVENT_PHOTO_KEY_FORMAT, id)
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete photo key %s: %w", key, err)
	}
	return nil
}

func (dao *RedisPhotoDAO) put(p *models.Photo) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal photo %s: %w", p.ID, err)
	}
	if err := dao.client.Set(fmt.Sprintf(EVENT_PHOTO_KEY_FORMAT, p.ID), string(data)); err != nil {
		return fmt.Errorf("failed to set photo in redis: %w", err)
	}
	return nil
}
