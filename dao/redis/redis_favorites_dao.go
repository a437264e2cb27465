package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"fiestas-server/db"
)

const FAVORITES_KEY_FORMAT = "festival-favorites:%s"

// RedisFavoritesDAO stores each client's favorites as a JSON array of event IDs.
type RedisFavoritesDAO struct {
	client db.RedisClient
}

func NewRedisFavoritesDAO(client db.RedisClient) *RedisFavoritesDAO {
	return &RedisFavoritesDAO{client: client}
}

func (dao *RedisFavoritesDAO) GetFavorites(clientID string) ([]string, error) {
	str, err := dao.client.Get(fmt.Sprintf(FAVORITES_KEY_FORMAT, clientID))
	if errors.Is(err, db.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites from redis: %w", err)
	}
	ids := []string{}
	if err := json.Unmarshal([]byte(str), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorites JSON: %w", err)
	}
	return ids, nil
}

func (dao *RedisFavoritesDAO) SaveFavorites(clientID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites for %s: %w", clientID, err)
	}
	if err := dao.client.Set(fmt.Sprintf(FAVORITES_KEY_FORMAT, clientID), string(data)); err != nil {
		return fmt.Errorf("failed to set favorites in redis: %w", err)
	}
	return nil
}
