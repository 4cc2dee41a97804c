package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/domain"
	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/rs/zerolog"
)

// FailoverDayCache serves from the primary cache until it fails, then
// falls back to the in-memory cache and probes the primary again after
// a cooldown.
type FailoverDayCache struct {
	primary   domain.DayCache
	fallback  domain.DayCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryCooldown = time.Minute

func NewFailoverDayCache(primary, fallback domain.DayCache, logger *zerolog.Logger) *FailoverDayCache {
	return &FailoverDayCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverDayCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("primary day cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

func (c *FailoverDayCache) shouldProbe() bool {
	return time.Since(time.Unix(0, c.lastCheck.Load())) > recoveryCooldown
}

func (c *FailoverDayCache) GetDay(ctx context.Context, date string) ([]*models.Reservation, error) {
	if !c.isDown.Load() {
		reservations, err := c.primary.GetDay(ctx, date)
		if err == nil {
			return reservations, nil
		}
		c.markDown(err)
	} else if c.shouldProbe() {
		reservations, err := c.primary.GetDay(ctx, date)
		if err == nil {
			c.isDown.Store(false)
			return reservations, nil
		}
		c.lastCheck.Store(time.Now().UnixNano())
	}

	return c.fallback.GetDay(ctx, date)
}

func (c *FailoverDayCache) SetDay(ctx context.Context, date string, reservations []*models.Reservation) error {
	if !c.isDown.Load() {
		if err := c.primary.SetDay(ctx, date, reservations); err != nil {
			c.markDown(err)
		} else {
			return nil
		}
	}
	return c.fallback.SetDay(ctx, date, reservations)
}

func (c *FailoverDayCache) InvalidateDay(ctx context.Context, date string) error {
	// Invalidate both sides; a stale fallback entry must not survive
	// a primary outage.
	var primaryErr error
	if !c.isDown.Load() {
		if primaryErr = c.primary.InvalidateDay(ctx, date); primaryErr != nil {
			c.markDown(primaryErr)
		}
	}
	return c.fallback.InvalidateDay(ctx, date)
}
