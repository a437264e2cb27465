package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// GoRedisClient adapts a go-redis client to RedisClient.
type GoRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewGoRedisClient wraps client; call Ping to verify the connection.
func NewGoRedisClient(ctx context.Context, client *redis.Client) *GoRedisClient {
	return &GoRedisClient{
		client: client,
		ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis
func (r *GoRedisClient) Set(key, value string) error {
	return r.client.Set(r.ctx, key, value, 0).Err()
}

// SetWithTTL sets a key that Redis expires after ttl.
func (r *GoRedisClient) SetWithTTL(key, value string, ttl time.Duration) error {
	return r.client.Set(r.ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GoRedisClient) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return val, err
}

func (r *GoRedisClient) Keys(pattern string) ([]string, error) {
	return r.client.Keys(r.ctx, pattern).Result()
}

func (r *GoRedisClient) Del(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

func (r *GoRedisClient) GetContext() context.Context {
	return r.ctx
}

func (r *GoRedisClient) Ping() error {
	if _, err := r.client.Ping(r.ctx).Result(); err != nil {
		return err
	}
	log.Println("[GoRedisClient] Connected to Redis")
	return nil
}

func (r *GoRedisClient) Close() error {
	return r.client.Close()
}
