package db

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist or expired.
var ErrKeyNotFound = errors.New("key not found")

// RedisClient defines the key-value operations the DAOs rely on.
type RedisClient interface {
	Set(key, value string) error
	SetWithTTL(key, value string, ttl time.Duration) error
	Get(key string) (string, error)
	GetContext() context.Context
	Ping() error
	Keys(pattern string) ([]string, error)
	Del(key string) error
}
