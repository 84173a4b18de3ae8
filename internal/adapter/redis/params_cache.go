package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

const paramsKey = "dispatch:params"

// ParamsCache stores the dispatch parameters document as JSON.
type ParamsCache struct {
	client redis.Cmdable
	key    string
}

func NewParamsCache(client redis.Cmdable) *ParamsCache {
	return &ParamsCache{client: client, key: paramsKey}
}

func (c *ParamsCache) Get(ctx context.Context) (models.DispatchParams, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DispatchParams{}, false, nil
	}
	if err != nil {
		return models.DispatchParams{}, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var p models.DispatchParams
	if err := json.Unmarshal(raw, &p); err != nil {
		// a corrupt entry behaves as a miss and is overwritten by the next Set
		return models.DispatchParams{}, false, nil
	}
	return p, true, nil
}

func (c *ParamsCache) Set(ctx context.Context, p models.DispatchParams, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

// Invalidate drops the cached document.
func (c *ParamsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
