package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

// MatchCacheService is a read-through cache for ranked match lists. A nil
// client means Redis was unreachable at startup and every call is a no-op,
// so the API keeps working without the cache.
type MatchCacheService interface {
	Get(ctx context.Context, userID uuid.UUID, limit int) ([]models.MatchedOffer, bool)
	Set(ctx context.Context, userID uuid.UUID, limit int, offers []models.MatchedOffer)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type matchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMatchCache(addr, password string, ttl time.Duration) MatchCacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unavailable, bypassing match cache: %v\n", err)
		_ = client.Close()
		return &matchCache{client: nil, ttl: ttl}
	}

	log.Println("✅ Redis match cache connected")
	return &matchCache{client: client, ttl: ttl}
}

func matchCacheKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("matches:%s:%d", userID, limit)
}

// Get implements MatchCacheService.
func (c *matchCache) Get(ctx context.Context, userID uuid.UUID, limit int) ([]models.MatchedOffer, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, matchCacheKey(userID, limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️  Match cache read failed: %v\n", err)
		}
		return nil, false
	}

	var offers []models.MatchedOffer
	if err := json.Unmarshal(raw, &offers); err != nil {
		return nil, false
	}
	return offers, true
}

// Set implements MatchCacheService.
func (c *matchCache) Set(ctx context.Context, userID uuid.UUID, limit int, offers []models.MatchedOffer) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(offers)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, matchCacheKey(userID, limit), raw, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Match cache write failed: %v\n", err)
	}
}

// Invalidate implements MatchCacheService. Drops every cached list for the
// user, whatever limit it was requested with.
func (c *matchCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c.client == nil {
		return
	}

	pattern := fmt.Sprintf("matches:%s:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("⚠️  Match cache invalidation failed: %v\n", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("⚠️  Match cache scan failed: %v\n", err)
	}
}
