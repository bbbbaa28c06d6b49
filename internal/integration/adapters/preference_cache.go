package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/family-budget/backend/internal/application/adapter"
)

// redisPreferenceCache keeps the current family id per scope in Redis.
type redisPreferenceCache struct {
	client *redis.Client
	prefix string
}

// NewRedisPreferenceCache creates a PreferenceCache backed by client. Keys are namespaced by prefix.
func NewRedisPreferenceCache(client *redis.Client, prefix string) adapter.PreferenceCache {
	return &redisPreferenceCache{client: client, prefix: prefix}
}

// GetCurrentFamilyID returns the cached family id, or "" when none is cached.
func (c *redisPreferenceCache) GetCurrentFamilyID(ctx context.Context, scope string) (string, error) {
	value, err := c.client.Get(ctx, c.key(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read current family: %w", err)
	}
	return value, nil
}

// SetCurrentFamilyID caches the family id. An empty id clears the entry.
func (c *redisPreferenceCache) SetCurrentFamilyID(ctx context.Context, scope, familyID string) error {
	if familyID == "" {
		if err := c.client.Del(ctx, c.key(scope)).Err(); err != nil {
			return fmt.Errorf("failed to clear current family: %w", err)
		}
		return nil
	}

	if err := c.client.Set(ctx, c.key(scope), familyID, 0).Err(); err != nil {
		return fmt.Errorf("failed to write current family: %w", err)
	}
	return nil
}

func (c *redisPreferenceCache) key(scope string) string {
	return fmt.Sprintf("%s:current-family:%s", c.prefix, scope)
}

// memoryPreferenceCache keeps the current family id per scope in process memory.
type memoryPreferenceCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryPreferenceCache creates a PreferenceCache that lives as long as the process.
// It is used when no Redis server is configured.
func NewMemoryPreferenceCache() adapter.PreferenceCache {
	return &memoryPreferenceCache{entries: make(map[string]string)}
}

func (c *memoryPreferenceCache) GetCurrentFamilyID(_ context.Context, scope string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[scope], nil
}

func (c *memoryPreferenceCache) SetCurrentFamilyID(_ context.Context, scope, familyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if familyID == "" {
		delete(c.entries, scope)
		return nil
	}
	c.entries[scope] = familyID
	return nil
}
