package funding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fundingnl/backend/models"
)

const catalogCacheKey = "fundingnl:funding:catalog:v1"

// CachedCatalog serves the full catalog from Redis, loading through next on a miss.
// Redis failures degrade to reading next directly.
type CachedCatalog struct {
	client *redis.Client
	next   Catalog
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCatalog returns a pass-through catalog when client is nil.
func NewCachedCatalog(client *redis.Client, next Catalog, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	return &CachedCatalog{client: client, next: next, ttl: ttl, logger: logger}
}

func (c *CachedCatalog) All(ctx context.Context) ([]models.FundingOpportunity, error) {
	if c.client == nil {
		return c.next.All(ctx)
	}

	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	switch {
	case err == nil:
		var list []models.FundingOpportunity
		if err := json.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		c.logger.Warn("Discarding unreadable catalog cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Catalog cache read failed", zap.Error(err))
	}

	list, err := c.next.All(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		if err := c.client.Set(ctx, catalogCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return list, nil
}

// Invalidate drops the cached catalog after a write.
func (c *CachedCatalog) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		c.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
