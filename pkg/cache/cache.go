package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/transitpadi/transit-backend/pkg/redis"
)

// TTL presets for cached reads.
var TTL = struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}{
	Short:  time.Minute,
	Medium: 15 * time.Minute,
	Long:   time.Hour,
}

// Keys centralizes cache key construction.
var Keys = struct {
	OperationsSettings string
	CharterPackages    string
	Trip               func(id string) string
	Promotion          func(code string) string
}{
	OperationsSettings: "settings:operations",
	CharterPackages:    "settings:charter_packages",
	Trip:               func(id string) string { return "trip:" + id },
	Promotion:          func(code string) string { return "promo:" + code },
}

// Manager handles caching operations with JSON serialization
type Manager struct {
	redis redisclient.ClientInterface
}

// NewManager creates a new cache manager
func NewManager(redis redisclient.ClientInterface) *Manager {
	return &Manager{redis: redis}
}

// Get retrieves a cached value and unmarshals it into result
func (m *Manager) Get(ctx context.Context, key string, result interface{}) error {
	data, err := m.redis.GetString(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), result)
}

// Set marshals and caches a value with expiration
func (m *Manager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return m.redis.SetWithExpiration(ctx, key, string(data), ttl)
}

// GetOrSet retrieves from cache or executes fn and caches the result.
func (m *Manager) GetOrSet(ctx context.Context, key string, ttl time.Duration, result interface{}, fn func() (interface{}, error)) error {
	if err := m.Get(ctx, key, result); err == nil {
		return nil
	}

	data, err := fn()
	if err != nil {
		return err
	}

	// A failed cache write must not fail the read path
	_ = m.Set(ctx, key, data, ttl)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, result)
}

// Delete removes keys from cache
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	return m.redis.Delete(ctx, keys...)
}
