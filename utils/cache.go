package utils

import (
	"context"
	"log"
	"time"

	"bookery/config"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCacheClient serves the availability display cache. It is a
// read-path optimization only; reservation-time checks always go to the
// primary store.
var AvailabilityCacheClient *redis.Client

// InitAvailabilityCache initializes the Redis client for availability caching.
func InitAvailabilityCache() {
	AvailabilityCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AvailabilityCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (availability cache): %v", err)
	}
}

// GetAvailabilityCacheClient returns the availability cache client, or nil
// when caching was never initialized (tests run without Redis).
func GetAvailabilityCacheClient() *redis.Client {
	return AvailabilityCacheClient
}
