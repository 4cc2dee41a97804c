package repository

import (
	"context"
	"sync"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"
)

// MemoryDayCache is the in-process fallback for the day-listing cache.
type MemoryDayCache struct {
	days sync.Map
	ttl  time.Duration
}

type dayEntry struct {
	reservations []*models.Reservation
	expiresAt    time.Time
}

func NewMemoryDayCache(ttl time.Duration) *MemoryDayCache {
	if ttl <= 0 {
		ttl = models.DefaultDayCacheTTL
	}
	return &MemoryDayCache{ttl: ttl}
}

func (c *MemoryDayCache) GetDay(ctx context.Context, date string) ([]*models.Reservation, error) {
	val, ok := c.days.Load(date)
	if !ok {
		return nil, nil
	}
	entry := val.(*dayEntry)
	if time.Now().After(entry.expiresAt) {
		c.days.Delete(date)
		return nil, nil
	}
	return entry.reservations, nil
}

func (c *MemoryDayCache) SetDay(ctx context.Context, date string, reservations []*models.Reservation) error {
	c.days.Store(date, &dayEntry{
		reservations: reservations,
		expiresAt:    time.Now().Add(c.ttl),
	})
	return nil
}

func (c *MemoryDayCache) InvalidateDay(ctx context.Context, date string) error {
	c.days.Delete(date)
	return nil
}
