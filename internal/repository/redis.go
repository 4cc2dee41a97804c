package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/config"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisDayCache stores the reservations of a calendar day as a JSON
// blob with a TTL. A cache miss returns (nil, nil).
type RedisDayCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisDayCache(client *redis.Client, ttl time.Duration) *RedisDayCache {
	if ttl <= 0 {
		ttl = models.DefaultDayCacheTTL
	}
	return &RedisDayCache{client: client, ttl: ttl}
}

func dayKey(date string) string {
	return fmt.Sprintf("day_reservations:%s", date)
}

func (r *RedisDayCache) GetDay(ctx context.Context, date string) ([]*models.Reservation, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, dayKey(date)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day from redis: %w", err)
	}

	var reservations []*models.Reservation
	if err := json.Unmarshal([]byte(val), &reservations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal day listing: %w", err)
	}
	return reservations, nil
}

func (r *RedisDayCache) SetDay(ctx context.Context, date string, reservations []*models.Reservation) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(reservations)
	if err != nil {
		return fmt.Errorf("failed to marshal day listing: %w", err)
	}
	if err := r.client.Set(ctx, dayKey(date), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set day in redis: %w", err)
	}
	return nil
}

func (r *RedisDayCache) InvalidateDay(ctx context.Context, date string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, dayKey(date)).Err(); err != nil {
		return fmt.Errorf("failed to delete day from redis: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
