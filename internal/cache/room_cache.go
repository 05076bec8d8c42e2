package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"rental-service/internal/models"
)

const (
	// L1 cache (in-memory) TTL
	L1CacheTTL = 30 * time.Second

	// L2 cache (Redis) TTL
	L2CacheTTL = 5 * time.Minute

	// Redis key for the vacant room listing
	VacantRoomsKey = "rooms:vacant"
)

// l1Entry represents an entry in the L1 cache
type l1Entry struct {
	Rooms     []models.Room
	ExpiresAt time.Time
}

// VacancyCache provides two-layer caching for the vacant-room listing.
// The room listing is the hottest read path; occupancy only changes on lease
// creation and termination, which both invalidate this cache.
type VacancyCache struct {
	// L1 cache (in-memory)
	l1 sync.Map

	// L2 cache (Redis) - optional
	redisClient *redis.Client

	redisEnabled bool
}

// NewVacancyCache creates a new vacancy cache backed by Redis
func NewVacancyCache(redisClient *redis.Client) *VacancyCache {
	c := &VacancyCache{
		redisClient:  redisClient,
		redisEnabled: redisClient != nil,
	}

	go c.cleanupL1()

	return c
}

// NewVacancyCacheWithoutRedis creates a cache without an L2 layer
func NewVacancyCacheWithoutRedis() *VacancyCache {
	c := &VacancyCache{
		redisEnabled: false,
	}

	go c.cleanupL1()

	return c
}

// GetVacantRooms retrieves the vacant-room listing (L1 first, then L2)
func (c *VacancyCache) GetVacantRooms(ctx context.Context) ([]models.Room, bool) {
	if entry, ok := c.l1.Load(VacantRoomsKey); ok {
		e := entry.(l1Entry)
		if time.Now().Before(e.ExpiresAt) {
			return e.Rooms, true
		}
		c.l1.Delete(VacantRoomsKey)
	}

	if c.redisEnabled {
		if rooms, ok := c.getFromRedis(ctx); ok {
			c.setL1(rooms)
			return rooms, true
		}
	}

	return nil, false
}

// SetVacantRooms stores the listing in both layers
func (c *VacancyCache) SetVacantRooms(ctx context.Context, rooms []models.Room) {
	c.setL1(rooms)

	if c.redisEnabled {
		c.setToRedis(ctx, rooms)
	}
}

// Invalidate drops the cached listing from both layers. Called whenever a
// lease lifecycle event or room creation changes occupancy.
func (c *VacancyCache) Invalidate(ctx context.Context) {
	c.l1.Delete(VacantRoomsKey)

	if c.redisEnabled {
		c.redisClient.Del(ctx, VacantRoomsKey)
	}
}

func (c *VacancyCache) setL1(rooms []models.Room) {
	c.l1.Store(VacantRoomsKey, l1Entry{
		Rooms:     rooms,
		ExpiresAt: time.Now().Add(L1CacheTTL),
	})
}

func (c *VacancyCache) getFromRedis(ctx context.Context) ([]models.Room, bool) {
	data, err := c.redisClient.Get(ctx, VacantRoomsKey).Bytes()
	if err != nil {
		return nil, false
	}

	var rooms []models.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, false
	}

	return rooms, true
}

func (c *VacancyCache) setToRedis(ctx context.Context, rooms []models.Room) {
	data, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	c.redisClient.Set(ctx, VacantRoomsKey, data, L2CacheTTL)
}

// cleanupL1 periodically removes expired entries from the L1 cache
func (c *VacancyCache) cleanupL1() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.l1.Range(func(key, value interface{}) bool {
			entry := value.(l1Entry)
			if now.After(entry.ExpiresAt) {
				c.l1.Delete(key)
			}
			return true
		})
	}
}
