package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
)

const defaultTTL = 30 * time.Second

// ChargerCounts caches network-wide charger counts per status in redis.
// Cache misses and redis failures fall through to the database; entries are
// dropped whenever a charger is created, deleted or transitioned.
type ChargerCounts struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewChargerCounts returns a redis-backed count cache.
func NewChargerCounts(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ChargerCounts {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ChargerCounts{client: client, ttl: ttl, logger: logger}
}

func (c *ChargerCounts) key(status models.ChargerStatus) string {
	return fmt.Sprintf("chargers:count:%s", status)
}

// Get returns a cached count if present.
func (c *ChargerCounts) Get(ctx context.Context, status models.ChargerStatus) (int64, bool) {
	raw, err := c.client.Get(ctx, c.key(status)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores a count with the configured TTL.
func (c *ChargerCounts) Set(ctx context.Context, status models.ChargerStatus, count int64) {
	if err := c.client.Set(ctx, c.key(status), count, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache charger count", zap.Error(err))
	}
}

// Invalidate drops all cached counts.
func (c *ChargerCounts) Invalidate(ctx context.Context) {
	statuses := []models.ChargerStatus{
		models.ChargerStatusAvailable,
		models.ChargerStatusInUse,
		models.ChargerStatusUnderMaintenance,
	}
	keys := make([]string, 0, len(statuses))
	for _, status := range statuses {
		keys = append(keys, c.key(status))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("failed to invalidate charger counts", zap.Error(err))
	}
}
