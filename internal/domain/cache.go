package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// ReportCache stores rendered analysis reports keyed by a digest of the
// request that produced them. The engines themselves stay pure; caching is
// an optional concern of the serving layer.
type ReportCache interface {
	// Get retrieves a cached report payload. Fails with ErrCacheMiss when
	// no entry exists for the key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a report payload under the key with a TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
