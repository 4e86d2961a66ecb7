package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and returns a new Redis client.
// It will exit the process if it cannot connect to the Redis server.
func NewRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Fatal("❌ REDIS_URL environment variable is not set")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("❌ Could not parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Could not connect to Redis: %v", err)
	}

	log.Println("✅ Successfully connected to Redis")
	return client
}

// Cooldown tracks short-lived "recently done" markers, used to throttle
// reissuing one-time codes. A nil client disables throttling.
type Cooldown struct {
	client *redis.Client
	window time.Duration
}

// NewCooldown returns a Cooldown over the given window.
func NewCooldown(client *redis.Client, window time.Duration) *Cooldown {
	return &Cooldown{client: client, window: window}
}

// Hit marks key as recently used and reports whether it was already inside
// the cooldown window. Redis failures are treated as "not throttled" so the
// cache can never block a request.
func (c *Cooldown) Hit(ctx context.Context, key string) bool {
	if c == nil || c.client == nil || c.window <= 0 {
		return false
	}
	set, err := c.client.SetNX(ctx, "cooldown:"+key, time.Now().Unix(), c.window).Result()
	if err != nil {
		return false
	}
	return !set
}
