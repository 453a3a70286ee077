package cache

import (
	"context"
	"encoding/json"
	"time"

	"hotelier/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RoomCache is a best-effort Redis cache for room catalog listings. The
// catalog is immutable after bootstrap, so entries can never go stale; the
// TTL only bounds memory. All failures degrade to a cache miss.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewRoomCache wraps an existing Redis client.
func NewRoomCache(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *RoomCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RoomCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(roomType string) string {
	if roomType == "" {
		return "hotelier:rooms:all"
	}
	return "hotelier:rooms:type:" + roomType
}

// Get returns the cached listing for a room type ("" = all rooms).
func (c *RoomCache) Get(ctx context.Context, roomType string) ([]models.Room, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, cacheKey(roomType)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Msg("room cache get failed")
		}
		return nil, false
	}
	var rooms []models.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		c.logger.Debug().Err(err).Msg("room cache entry corrupt")
		return nil, false
	}
	return rooms, true
}

// Set stores a listing for a room type.
func (c *RoomCache) Set(ctx context.Context, roomType string, rooms []models.Room) {
	if c == nil {
		return
	}
	data, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(roomType), data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("room cache set failed")
	}
}
