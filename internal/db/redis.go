package db

import (
	"backend-sgmrt/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds the client shared by the course cache and the run
// event hub. An empty REDIS_ADDR yields nil, which both treat as disabled.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	return redis.NewClient(opts)
}
