package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProfileCache is a Redis-backed cache for public clinic profiles. A nil
// cache is a no-op, so callers never branch on whether Redis is configured.
type ProfileCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewProfileCache creates a profile cache with the given entry TTL.
func NewProfileCache(redisClient *redis.Client, ttl time.Duration) *ProfileCache {
	if redisClient == nil {
		return nil
	}
	return &ProfileCache{redis: redisClient, ttl: ttl}
}

func (c *ProfileCache) key(username string) string {
	return fmt.Sprintf("clinic:profile:%s", username)
}

// Get returns the cached profile for a username, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, username string) (*Profile, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.redis.Get(ctx, c.key(username)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinic: cache get: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("clinic: cache unmarshal: %w", err)
	}
	return &p, nil
}

// Set stores a profile under its username.
func (c *ProfileCache) Set(ctx context.Context, p *Profile) error {
	if c == nil || p == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("clinic: cache marshal: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(p.Username), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("clinic: cache set: %w", err)
	}
	return nil
}

// Invalidate removes a cached profile.
func (c *ProfileCache) Invalidate(ctx context.Context, username string) error {
	if c == nil {
		return nil
	}
	if err := c.redis.Del(ctx, c.key(username)).Err(); err != nil {
		return fmt.Errorf("clinic: cache invalidate: %w", err)
	}
	return nil
}
