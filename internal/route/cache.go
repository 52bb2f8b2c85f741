package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"backend-ecoroute/internal/location"

	"github.com/redis/go-redis/v9"
)

const DefaultCacheTTL = 10 * time.Minute

// Cache stores live provider results. Implementations swallow their own
// errors; a miss and a failure look the same to the caller.
type Cache interface {
	Get(ctx context.Context, key string) ([]Itinerary, bool)
	Set(ctx context.Context, key string, itineraries []Itinerary, ttl time.Duration)
}

type RedisCache struct {
	redis *redis.Client
}

// NewRedisCache returns nil when no client is configured so callers can pass
// the result straight into Options.
func NewRedisCache(client *redis.Client) Cache {
	if client == nil {
		return nil
	}
	return &RedisCache{redis: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Itinerary, bool) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("route cache get error: %v", err)
		}
		return nil, false
	}
	var itineraries []Itinerary
	if err := json.Unmarshal(raw, &itineraries); err != nil {
		log.Printf("route cache decode error: %v", err)
		return nil, false
	}
	return itineraries, true
}

func (c *RedisCache) Set(ctx context.Context, key string, itineraries []Itinerary, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	raw, err := json.Marshal(itineraries)
	if err != nil {
		log.Printf("route cache encode error: %v", err)
		return
	}
	if err := c.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("route cache set error: %v", err)
	}
}

func cacheKey(origin, destination location.Location) string {
	return "routes:" + cacheEndpoint(origin) + ":" + cacheEndpoint(destination)
}

func cacheEndpoint(loc location.Location) string {
	if loc.Coordinates != nil {
		return fmt.Sprintf("%.5f,%.5f", loc.Coordinates.Lat, loc.Coordinates.Lng)
	}
	return strings.ToLower(strings.ReplaceAll(endpoint(loc), " ", "_"))
}
