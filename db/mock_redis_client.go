package db

import (
	"context"
	"fmt"
	"log"
	"path"
	"sort"
	"sync"
	"time"
)

// MockRedisClient is an in-memory RedisClient used in tests and local runs.
type MockRedisClient struct {
	data      map[string]string
	expiresAt map[string]time.Time
	mu        sync.RWMutex
	context   context.Context
	now       func() time.Time
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient(ctx context.Context) *MockRedisClient {
	return &MockRedisClient{
		data:      make(map[string]string),
		expiresAt: make(map[string]time.Time),
		context:   ctx,
		now:       time.Now,
	}
}

// SetNowFunc replaces the clock used to expire keys.
func (m *MockRedisClient) SetNowFunc(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Set stores a key-value pair in the mock Redis.
func (m *MockRedisClient) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	delete(m.expiresAt, key)
	return nil
}

func (m *MockRedisClient) SetWithTTL(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	if ttl > 0 {
		m.expiresAt[key] = m.now().Add(ttl)
	} else {
		delete(m.expiresAt, key)
	}
	return nil
}

// Get retrieves a value for a given key from the mock Redis.
func (m *MockRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.alive(key) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return m.data[key], nil
}

// Keys matches with glob rules close enough to Redis KEYS for the patterns the DAOs use.
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := []string{}
	for key := range m.data {
		if !m.alive(key) {
			continue
		}
		ok, err := path.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockRedisClient) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.expiresAt, key)
	return nil
}

// alive must be called with the lock held.
func (m *MockRedisClient) alive(key string) bool {
	if _, ok := m.data[key]; !ok {
		return false
	}
	exp, ok := m.expiresAt[key]
	return !ok || m.now().Before(exp)
}

// GetContext returns the mock Redis client's context.
func (m *MockRedisClient) GetContext() context.Context {
	return m.context
}

// Ping simulates a Redis Ping operation.
func (m *MockRedisClient) Ping() error {
	log.Println("[MockRedisClient] Ping successful")
	return nil
}
