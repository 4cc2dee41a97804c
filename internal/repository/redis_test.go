package repository

import (
	"context"
	"testing"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisDayCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDayCache(client, ttl), mr
}

func sampleDay() []*models.Reservation {
	return []*models.Reservation{
		{ID: 1, FirstName: "Grace", LastName: "Hopper", ReservationDate: "2030-01-04", ReservationTime: "18:00", People: 2, Status: models.StatusBooked},
		{ID: 2, FirstName: "Ada", LastName: "Lovelace", ReservationDate: "2030-01-04", ReservationTime: "19:00", People: 4, Status: models.StatusBooked},
	}
}

func TestRedisDayCache_RoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetDay(ctx, "2030-01-04", sampleDay()))

	got, err := cache.GetDay(ctx, "2030-01-04")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Grace", got[0].FirstName)
	assert.Equal(t, models.StatusBooked, got[1].Status)
}

func TestRedisDayCache_MissReturnsNil(t *testing.T) {
	cache, _ := newTestRedisCache(t, time.Minute)

	got, err := cache.GetDay(context.Background(), "2030-01-04")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDayCache_InvalidateDay(t *testing.T) {
	cache, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetDay(ctx, "2030-01-04", sampleDay()))
	require.NoError(t, cache.InvalidateDay(ctx, "2030-01-04"))

	got, err := cache.GetDay(ctx, "2030-01-04")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDayCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestRedisCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.SetDay(ctx, "2030-01-04", sampleDay()))
	mr.FastForward(2 * time.Second)

	got, err := cache.GetDay(ctx, "2030-01-04")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisDayCache_DownServerErrors(t *testing.T) {
	cache, mr := newTestRedisCache(t, time.Minute)
	mr.Close()

	_, err := cache.GetDay(context.Background(), "2030-01-04")
	assert.Error(t, err)
	assert.Error(t, cache.SetDay(context.Background(), "2030-01-04", sampleDay()))
}
