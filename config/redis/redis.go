package redis

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staynest/booking/logger"
)

const redisPingTimeout = 5 * time.Second

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedisClient returns the shared Redis client, or nil when REDIS_URL is
// unset or unreachable. Callers must tolerate a nil client: admission falls
// back to the transactional conflict guard alone.
func GetRedisClient() *redis.Client {
	redisOnce.Do(func() {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.WarnLogger.Warn("REDIS_URL not set; redis-backed locks and rate limits disabled")
			return
		}

		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.ErrorLogger.Errorf("Invalid REDIS_URL: %v", err)
			return
		}

		client := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if _, err := client.Ping(ctx).Result(); err != nil {
			logger.ErrorLogger.Errorf("Failed to connect to Redis: %v", err)
			_ = client.Close()
			return
		}

		redisClient = client
		logger.InfoLogger.Info("Connected to Redis")
	})

	return redisClient
}

// CloseRedis closes the Redis connection.
func CloseRedis() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.ErrorLogger.Errorf("Error closing Redis connection: %v", err)
		}
		logger.InfoLogger.Info("Redis connection closed")
	}
}
