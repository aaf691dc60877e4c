package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lawpractice-service/internal/models"
)

// RoleCache handles caching of resolved roles (with their permission sets)
// in Redis. When Redis is unreachable the cache degrades to a no-op and every
// lookup falls through to the database.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache creates a new role cache instance
func NewRoleCache(host string, port int, password string, db int, ttlSeconds int) (*RoleCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Return cache with nil client - will gracefully degrade to no caching
		return &RoleCache{
			client: nil,
			ttl:    time.Duration(ttlSeconds) * time.Second,
		}, nil
	}

	return &RoleCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// cacheKey generates a unique cache key for a role lookup
func (c *RoleCache) cacheKey(firmID *uuid.UUID, roleName string) string {
	firmStr := "global"
	if firmID != nil {
		firmStr = firmID.String()
	}
	return fmt.Sprintf("roleperms:%s:%s", firmStr, roleName)
}

// Get retrieves a cached role with its permission set
func (c *RoleCache) Get(ctx context.Context, firmID *uuid.UUID, roleName string) (*models.Role, error) {
	if c.client == nil {
		return nil, nil // Cache unavailable, return nil
	}

	key := c.cacheKey(firmID, roleName)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var role models.Role
	if err := json.Unmarshal(data, &role); err != nil {
		return nil, err
	}

	return &role, nil
}

// Set caches a resolved role
func (c *RoleCache) Set(ctx context.Context, firmID *uuid.UUID, roleName string, role *models.Role) error {
	if c.client == nil {
		return nil // Cache unavailable, silently skip
	}

	key := c.cacheKey(firmID, roleName)
	data, err := json.Marshal(role)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate removes a cached role lookup
func (c *RoleCache) Invalidate(ctx context.Context, firmID *uuid.UUID, roleName string) error {
	if c.client == nil {
		return nil
	}

	key := c.cacheKey(firmID, roleName)
	return c.client.Del(ctx, key).Err()
}

// InvalidateFirm removes every cached role lookup for a firm. Use this when
// a firm's roles or permission grants change.
func (c *RoleCache) InvalidateFirm(ctx context.Context, firmID uuid.UUID) error {
	if c.client == nil {
		return nil
	}

	pattern := fmt.Sprintf("roleperms:%s:*", firmID.String())
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}

	return nil
}

// Close closes the Redis connection
func (c *RoleCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsAvailable returns true if the cache is available
func (c *RoleCache) IsAvailable() bool {
	return c.client != nil
}
