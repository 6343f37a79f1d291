package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const dentistsKey = "dentist_bot:dentists:available"

// DentistCache кэширует справочник врачей в Redis
type DentistCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewDentistCache создаёт кэш справочника
func NewDentistCache(rdb redis.Cmdable, ttl time.Duration) *DentistCache {
	return &DentistCache{rdb: rdb, ttl: ttl}
}

// Get возвращает справочник; ok=false если в кэше ничего нет
func (c *DentistCache) Get(ctx context.Context) ([]model.Dentist, bool, error) {
	raw, err := c.rdb.Get(ctx, dentistsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get dentists from cache: %w", err)
	}

	var dentists []model.Dentist
	if err := json.Unmarshal(raw, &dentists); err != nil {
		return nil, false, fmt.Errorf("decode cached dentists: %w", err)
	}
	return dentists, true, nil
}

// Set сохраняет справочник на ttl
func (c *DentistCache) Set(ctx context.Context, dentists []model.Dentist) error {
	raw, err := json.Marshal(dentists)
	if err != nil {
		return fmt.Errorf("encode dentists: %w", err)
	}
	if err := c.rdb.Set(ctx, dentistsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put dentists to cache: %w", err)
	}
	return nil
}

// Invalidate удаляет справочник из кэша
func (c *DentistCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, dentistsKey).Err(); err != nil {
		return fmt.Errorf("invalidate dentists cache: %w", err)
	}
	return nil
}
