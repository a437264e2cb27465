package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"fiestas-server/db"
	"fiestas-server/models"
)

const CONSENT_KEY_FORMAT = "cookie-consent:%s"

type RedisConsentDAO struct {
	client db.RedisClient
}

func NewRedisConsentDAO(client db.RedisClient) *RedisConsentDAO {
	return &RedisConsentDAO{client: client}
}

// GetConsent returns nil, nil when the client never answered the banner.
func (dao *RedisConsentDAO) GetConsent(clientID string) (*models.Consent, error) {
	str, err := dao.client.Get(fmt.Sprintf(CONSENT_KEY_FORMAT, clientID))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consent from redis: %w", err)
	}
	var c models.Consent
	if err := json.Unmarshal([]byte(str), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal consent JSON: %w", err)
	}
	return &c, nil
}

func (dao *RedisConsentDAO) SaveConsent(clientID string, c models.Consent) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal consent: %w", err)
	}
	if err := dao.client.Set(fmt.Sprintf(CONSENT_KEY_FORMAT, clientID), string(data)); err != nil {
		return fmt.Errorf("failed to set consent in redis: %w", err)
	}
	return nil
}

func (dao *RedisConsentDAO) DeleteConsent(clientID string) error {
	key := fmt.Sprintf(CONSENT_KEY_FORMAT, clientID)
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete consent key %s: %w", key, err)
	}
	return nil
}
