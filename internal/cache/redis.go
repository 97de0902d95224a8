// Package cache provides a best-effort Redis cache for rendered listings
// and post lookups. A missing Redis is not an error; every helper is a
// no-op when the client is nil.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client; nil when Redis is unavailable.
var Client *redis.Client

// InitRedis connects to Redis at addr. On failure the application
// continues without a cache.
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		Client = nil
	} else {
		log.Println("Redis connected successfully")
	}
}

// GetClient returns the shared client, nil when the cache is disabled.
func GetClient() *redis.Client {
	return Client
}

// Close releases the client if one was established.
func Close() {
	if Client != nil {
		_ = Client.Close()
		Client = nil
	}
}
