package course

import (
	"context"
	"errors"
	"time"

	"backend-sgmrt/internal/path"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a run's path is not cached.
var ErrMiss = errors.New("course cache miss")

// Cache keeps simplified run paths in Redis for map display. A Cache built
// on a nil client, or a nil *Cache, is a no-op that always misses.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redisClient *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redisClient, ttl: ttl}
}

func (c *Cache) Put(ctx context.Context, runID string, sp path.SimplifiedPath) error {
	if c == nil || c.redis == nil {
		return nil
	}
	payload, err := json.Marshal(sp)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key(runID), payload, c.ttl).Err()
}

func (c *Cache) Get(ctx context.Context, runID string) (path.SimplifiedPath, error) {
	if c == nil || c.redis == nil {
		return path.SimplifiedPath{}, ErrMiss
	}
	payload, err := c.redis.Get(ctx, key(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return path.SimplifiedPath{}, ErrMiss
	}
	if err != nil {
		return path.SimplifiedPath{}, err
	}

	var sp path.SimplifiedPath
	if err := json.Unmarshal(payload, &sp); err != nil {
		return path.SimplifiedPath{}, err
	}
	return sp, nil
}

func (c *Cache) Invalidate(ctx context.Context, runID string) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, key(runID)).Err()
}

func key(runID string) string {
	return "course:" + runID + ":path"
}
