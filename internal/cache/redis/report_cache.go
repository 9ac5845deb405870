package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benchwise/benchwise/internal/domain"
	"github.com/benchwise/benchwise/internal/observability"
)

// ReportCache implements the domain ReportCache over Redis.
type ReportCache struct {
	client *redis.Client
	prefix string
}

// NewReportCache creates a new Redis-backed report cache adapter.
func NewReportCache(client *redis.Client, prefix string) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached report payload.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		observability.FromContext(ctx).Warn("report cache get failed",
			observability.String("key", key),
			observability.Error(err))
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	return payload, nil
}

// Set stores a report payload with a TTL.
func (c *ReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}

	observability.FromContext(ctx).Debug("report cached",
		observability.String("key", key),
		observability.Int("payload_size", len(payload)))
	return nil
}

func (c *ReportCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
